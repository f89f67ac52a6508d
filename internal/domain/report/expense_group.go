package report

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ExpenseGroup is a DRE expense line that bundles related categories
type ExpenseGroup string

const (
	GroupDirectCosts      ExpenseGroup = "direct_costs"
	GroupIndirectExpenses ExpenseGroup = "indirect_expenses"
	GroupMarketing        ExpenseGroup = "marketing"
	GroupTaxes            ExpenseGroup = "taxes"
	GroupFinancial        ExpenseGroup = "financial"
	GroupInvestments      ExpenseGroup = "investments"
	GroupOther            ExpenseGroup = "other"
)

// groupKeywords is checked in order; the first group with a matching keyword wins.
var groupKeywords = []struct {
	group    ExpenseGroup
	keywords []string
}{
	{GroupDirectCosts, []string{"salario", "custo", "producao", "comissao", "mao de obra", "terceiro"}},
	{GroupIndirectExpenses, []string{"aluguel", "telefonia", "material", "escritorio", "manutencao", "luz", "agua", "energia", "limpeza"}},
	{GroupMarketing, []string{"marketing", "publicidade", "propaganda", "anuncio"}},
	{GroupTaxes, []string{"imposto", "simples", "icms", "iss", "pis", "cofins", "nacional", "taxa"}},
	{GroupFinancial, []string{"financeira", "banco", "juros", "tarifa", "taxa bancaria", "cartao"}},
	{GroupInvestments, []string{"investimento", "equipamento", "software", "tecnologia"}},
}

// ExpenseGroups lists every group in statement order
var ExpenseGroups = []ExpenseGroup{
	GroupDirectCosts,
	GroupIndirectExpenses,
	GroupMarketing,
	GroupTaxes,
	GroupFinancial,
	GroupInvestments,
	GroupOther,
}

// ClassifyCategory maps a category name to its expense group.
// Matching ignores case and accents.
func ClassifyCategory(name string) ExpenseGroup {
	folded := foldName(name)
	for _, g := range groupKeywords {
		for _, kw := range g.keywords {
			if strings.Contains(folded, kw) {
				return g.group
			}
		}
	}
	return GroupOther
}

func foldName(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}
	return strings.ToLower(folded)
}

// ExpenseGroupTotal is one group line with the categories it bundles
type ExpenseGroupTotal struct {
	Group      ExpenseGroup
	Amount     decimal.Decimal
	Categories []CategoryAmount
}

// GroupExpenses bundles category sums into every group, in statement order.
// Groups without categories are present with a zero amount.
func GroupExpenses(cats []CategoryAmount) []ExpenseGroupTotal {
	index := make(map[ExpenseGroup]int, len(ExpenseGroups))
	out := make([]ExpenseGroupTotal, len(ExpenseGroups))
	for i, g := range ExpenseGroups {
		index[g] = i
		out[i] = ExpenseGroupTotal{Group: g, Amount: decimal.Zero, Categories: []CategoryAmount{}}
	}

	for _, c := range cats {
		line := &out[index[ClassifyCategory(c.Category)]]
		line.Amount = line.Amount.Add(c.Amount)
		line.Categories = append(line.Categories, c)
	}
	return out
}
