package pacingcache

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/vfg2006/media-pacing-api/internal/domain"
)

// NormalizeIDs remove espaços, converte para minúsculas, descarta vazios e duplicados e ordena
func NormalizeIDs(ids []string) []string {
	normalized := lo.FilterMap(ids, func(id string, _ int) (string, bool) {
		id = strings.ToLower(strings.TrimSpace(id))
		return id, id != ""
	})

	normalized = lo.Uniq(normalized)
	sort.Strings(normalized)
	return normalized
}

// BuildKey é função pura de escopo, entidade, janela de datas e conjunto de ids.
// Requisições iguais em ordem ou caixa diferentes geram a mesma chave.
func BuildKey(scope, entityID string, ids []string, start, end string) string {
	sum := sha256.Sum256([]byte(strings.Join(NormalizeIDs(ids), "\n")))

	return strings.Join([]string{
		strings.ToLower(strings.TrimSpace(scope)),
		strings.ToLower(strings.TrimSpace(entityID)),
		normalizeDate(start),
		normalizeDate(end),
		hex.EncodeToString(sum[:]),
	}, ":")
}

func normalizeDate(value string) string {
	date, err := domain.ParseDate(value)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(value))
	}
	return date.String()
}
