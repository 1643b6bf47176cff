package domain

// ─── Service Interfaces ─────────────────────────────────────────────────────
// These interfaces define boundaries between layers.
// Infrastructure implements them; application layer depends on them.

// Predictor is the opaque compliment classifier. It returns 1 when the
// feature vector deserves a compliment and 0 otherwise. Any other value is
// treated as 0 by the engines.
type Predictor interface {
	Predict(v FeatureVector) int
}

// PredictorFunc adapts a plain function to Predictor.
type PredictorFunc func(v FeatureVector) int

// Predict calls f(v).
func (f PredictorFunc) Predict(v FeatureVector) int { return f(v) }

// TemplateSource resolves message templates by engine and trigger.
// Implemented by infra/catalog.Catalog.
type TemplateSource interface {
	Lookup(kind TemplateKind, trigger string) (TemplateEntry, bool)
}

// TagSource hands out the current popular-tag snapshot. Readers never block
// on writers and never observe a half-written table.
// Implemented by infra/tuning.Store.
type TagSource interface {
	PopularTags() PopularTags
}
