package series

import (
	"context"
	"fmt"

	"github.com/shupe-carboni/pricebook-service/internal/grammar"
	"github.com/shupe-carboni/pricebook-service/internal/refdata"
	"github.com/shupe-carboni/pricebook-service/internal/types"
)

// aliasResolver handles a private-label series whose models are rebadged
// versions of a real series. The alias prefix is substituted with the real
// one and resolution is delegated, so pricing and dimensions always come
// from the real model; only the badge on the returned specification keeps
// the private-label identity.
type aliasResolver struct {
	series      string
	description string
	target      Resolver
	grammar     *grammar.Grammar
}

func newAliasResolver(series, description string, target Resolver) *aliasResolver {
	targetGrammar := target.Grammar()

	lengths := make([]int, 0, 2)
	for _, l := range targetGrammar.Lengths() {
		lengths = append(lengths, l-len(target.Series())+len(series))
	}

	// The alias grammar only gates on prefix and length; full validation
	// happens after substitution against the real grammar.
	expr := fmt.Sprintf(`(?P<series>%s)(?P<rest>[A-Z0-9]+)`, series)

	return &aliasResolver{
		series:      series,
		description: description,
		target:      target,
		grammar:     grammar.MustCompile(series, lengths, expr),
	}
}

func (r *aliasResolver) Series() string            { return r.series }
func (r *aliasResolver) Description() string       { return r.description }
func (r *aliasResolver) Grammar() *grammar.Grammar { return r.grammar }

// PriceSeries reports the series whose base-price rows alias models price
// from. Update sheets must stage rows there; a row staged under the alias
// badge would never be read.
func (r *aliasResolver) PriceSeries() string { return r.target.Series() }

// Key delegates to the real series; alias models price off its base rows.
func (r *aliasResolver) Key(m *grammar.Match) (string, error) {
	realModel := r.target.Series() + m.Segment("rest")
	rm, ok := r.target.Grammar().Match(realModel)
	if !ok {
		return "", fmt.Errorf("alias %q substitutes to %q which is not a valid %s model",
			m.Raw(), realModel, r.target.Series())
	}
	return r.target.Key(rm)
}

func (r *aliasResolver) Resolve(ctx context.Context, store refdata.Store, m *grammar.Match, mode types.PricingMode) ([]types.PricedModel, error) {
	realModel := r.target.Series() + m.Segment("rest")

	rm, ok := r.target.Grammar().Match(realModel)
	if !ok {
		return nil, fmt.Errorf("alias %q substitutes to %q which is not a valid %s model",
			m.Raw(), realModel, r.target.Series())
	}

	models, err := r.target.Resolve(ctx, store, rm, mode)
	if err != nil {
		return nil, err
	}

	for i := range models {
		models[i].Specification.Series = r.series
		models[i].Specification.ModelNumber = m.Raw()
	}
	return models, nil
}
