package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/spf13/cobra"
	"github.com/vfg2006/media-pacing-api/internal/config"
)

// Cria a tabela de entrega diária num Postgres local e preenche com dados sintéticos,
// para exercitar o pacing sem acesso ao warehouse de produção.

const (
	idLength   = 6
	characters = "abcdefghijklmnopqrstuvwxyz0123456789"
	batchSize  = 500
)

const createTable = `
CREATE TABLE IF NOT EXISTS %[1]s (
	campaign_id   TEXT NOT NULL,
	line_item_id  TEXT NOT NULL,
	date          DATE NOT NULL,
	spend         NUMERIC(18, 4) NOT NULL DEFAULT 0,
	impressions   BIGINT NOT NULL DEFAULT 0,
	clicks        BIGINT NOT NULL DEFAULT 0,
	conversions   BIGINT NOT NULL DEFAULT 0,
	video_views   BIGINT NOT NULL DEFAULT 0,
	PRIMARY KEY (campaign_id, line_item_id, date)
)`

type deliveryRow struct {
	CampaignID  string
	LineItemID  string
	Date        time.Time
	Spend       float64
	Impressions int64
	Clicks      int64
	Conversions int64
	VideoViews  int64
}

func setupLogger() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.Println("Iniciando script de carga do warehouse local...")
}

func generateID() string {
	id, _ := gonanoid.Generate(characters, idLength)
	return id
}

// syntheticRows gera uma entrega diária com ruído em torno do orçamento diário planejado
func syntheticRows(campaignID string, lineItems int, start time.Time, days int, dailyBudget float64) []deliveryRow {
	rng := rand.New(rand.NewSource(start.Unix()))

	rows := make([]deliveryRow, 0, lineItems*days)
	for i := 0; i < lineItems; i++ {
		lineItemID := fmt.Sprintf("li-%s", generateID())
		for d := 0; d < days; d++ {
			spend := dailyBudget * (0.7 + rng.Float64()*0.6)
			impressions := int64(spend * (80 + rng.Float64()*40))
			rows = append(rows, deliveryRow{
				CampaignID:  campaignID,
				LineItemID:  lineItemID,
				Date:        start.AddDate(0, 0, d),
				Spend:       spend,
				Impressions: impressions,
				Clicks:      impressions / 100,
				Conversions: impressions / 2000,
				VideoViews:  impressions / 4,
			})
		}
	}
	return rows
}

func insertRows(ctx context.Context, tx *sql.Tx, table string, rows []deliveryRow) error {
	log.Printf("Iniciando inserção de %d linhas de entrega...", len(rows))
	startTime := time.Now()

	for offset := 0; offset < len(rows); offset += batchSize {
		end := min(offset+batchSize, len(rows))

		insert := sq.Insert(table).
			Columns("campaign_id", "line_item_id", "date", "spend", "impressions", "clicks", "conversions", "video_views").
			PlaceholderFormat(sq.Dollar).
			Suffix("ON CONFLICT (campaign_id, line_item_id, date) DO NOTHING")

		for _, row := range rows[offset:end] {
			insert = insert.Values(row.CampaignID, row.LineItemID, row.Date.Format(time.DateOnly), row.Spend, row.Impressions, row.Clicks, row.Conversions, row.VideoViews)
		}

		query, args, err := insert.ToSql()
		if err != nil {
			return fmt.Errorf("montar insert: %w", err)
		}

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("inserir lote %d-%d: %w", offset, end, err)
		}
	}

	log.Printf("Inserção concluída em %v", time.Since(startTime))
	return nil
}

var (
	flagCampaign    string
	flagLineItems   int
	flagDays        int
	flagDailyBudget float64
)

var rootCmd = &cobra.Command{
	Use:   "seed-delivery",
	Short: "Carga sintética da tabela de entrega diária",
	Long:  "Cria a tabela de entrega diária no Postgres configurado e insere uma campanha sintética.",
	RunE:  runSeed,
}

func init() {
	rootCmd.Flags().StringVarP(&flagCampaign, "campaign", "c", "", "id da campanha (gerado quando vazio)")
	rootCmd.Flags().IntVarP(&flagLineItems, "line-items", "l", 5, "quantidade de linhas")
	rootCmd.Flags().IntVarP(&flagDays, "days", "n", 60, "quantidade de dias de entrega")
	rootCmd.Flags().Float64Var(&flagDailyBudget, "daily-budget", 250, "orçamento diário médio por linha")
}

func main() {
	setupLogger()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runSeed(cmd *cobra.Command, _ []string) error {
	if flagLineItems <= 0 || flagDays <= 0 {
		return fmt.Errorf("line-items e days devem ser positivos")
	}

	cfg, err := config.NewConfig()
	if err != nil {
		return fmt.Errorf("carregar configuração: %w", err)
	}

	if cfg.Warehouse.Dialect == "clickhouse" {
		return fmt.Errorf("o script de carga só suporta o dialeto postgres")
	}

	campaignID := flagCampaign
	if campaignID == "" {
		campaignID = "camp-" + generateID()
	}

	ctx := cmd.Context()

	db, err := sql.Open("postgres", cfg.Warehouse.DSN)
	if err != nil {
		return fmt.Errorf("abrir conexão: %w", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, fmt.Sprintf(createTable, cfg.Warehouse.DeliveryTable)); err != nil {
		return fmt.Errorf("criar tabela %s: %w", cfg.Warehouse.DeliveryTable, err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("iniciar transação: %w", err)
	}

	start := time.Now().UTC().AddDate(0, 0, -flagDays).Truncate(24 * time.Hour)
	rows := syntheticRows(campaignID, flagLineItems, start, flagDays, flagDailyBudget)

	if err := insertRows(ctx, tx, cfg.Warehouse.DeliveryTable, rows); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("carga: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("confirmar transação: %w", err)
	}

	log.Printf("Campanha %s carregada com %d linhas de entrega", campaignID, len(rows))
	return nil
}
