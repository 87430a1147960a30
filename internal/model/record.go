package model

// Record is a bookmark leaf flattened out of a tree: a display label and the
// target it opens. Records are values and are never modified after loading.
type Record struct {
	Label  string `json:"label"`
	Target string `json:"target"`
}
