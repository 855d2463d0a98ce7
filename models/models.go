package models

// All returns every persisted model, in migration order.
func All() []any {
	return []any{
		&User{},
		&Category{},
		&Product{},
		&Review{},
		&CartItem{},
		&Order{},
		&ProcessedEvent{},
		&Promotion{},
		&Slide{},
		&LogoSettings{},
	}
}
