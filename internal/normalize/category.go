package normalize

// InferCategory assigns a two-level category to a product. Signals in
// priority order: a keyword in the name, the brand's default category,
// then the source listing hint the adapter supplied. The zero Category
// means no signal won.
func (n *Normalizer) InferCategory(name, brand string, hint Category) Category {
	for i, re := range n.categoryRes {
		if re.MatchString(name) {
			rule := n.tables.CategoryRules[i]
			return Category{Top: rule.Top, Sub: rule.Sub}
		}
	}

	if brand != "" {
		if cat, ok := n.tables.BrandCategories[brand]; ok {
			return cat
		}
	}

	return hint
}
