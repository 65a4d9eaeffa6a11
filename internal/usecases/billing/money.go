package billing

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/media-pacing-api/pkg/utils"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// MoneyFormatter formata valores como texto monetário do locale configurado, com duas casas
type MoneyFormatter struct {
	printer *message.Printer
	symbol  string
	group   string
	decimal string
}

func NewMoneyFormatter(locale, symbol string) *MoneyFormatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.AmericanEnglish
	}

	f := &MoneyFormatter{
		printer: message.NewPrinter(tag),
		symbol:  symbol,
	}
	f.group, f.decimal = f.separators()
	return f
}

func (f *MoneyFormatter) Format(amount decimal.Decimal) string {
	rounded := amount.Round(2)
	value, _ := rounded.Abs().Float64()

	text := f.symbol + f.printer.Sprintf("%.2f", value)
	if rounded.IsNegative() {
		return "-" + text
	}
	return text
}

// Parse lê de volta um texto produzido por Format; valores ilegíveis valem zero
func (f *MoneyFormatter) Parse(text string) decimal.Decimal {
	cleaned := strings.TrimSpace(text)
	if f.symbol != "" {
		cleaned = strings.ReplaceAll(cleaned, f.symbol, "")
	}
	if f.group != "" {
		cleaned = strings.ReplaceAll(cleaned, f.group, "")
	}
	if f.decimal != "." {
		cleaned = strings.ReplaceAll(cleaned, f.decimal, ".")
	}
	return utils.ParseAmount(cleaned)
}

// separators descobre os separadores de milhar e decimal do locale formatando 1234.50
func (f *MoneyFormatter) separators() (string, string) {
	sample := []rune(f.printer.Sprintf("%.2f", 1234.5))
	if len(sample) < 7 {
		return ",", "."
	}

	decimalSep := string(sample[len(sample)-3])
	groupSep := string(sample[1 : len(sample)-6])
	return groupSep, decimalSep
}
