// Package catalog provides the model marketplace entries shown in the list
package catalog

import (
	"fmt"
	"strings"
	"time"
)

// ModelType identifies the runtime format of a model
type ModelType string

const (
	ModelCoreML     ModelType = "coreml"
	ModelONNX       ModelType = "onnx"
	ModelTensorFlow ModelType = "tensorflow"
	ModelPyTorch    ModelType = "pytorch"
	ModelCustom     ModelType = "custom"
)

// AccessType controls who may run inference against a model
type AccessType string

const (
	AccessPublic    AccessType = "public"
	AccessPrivate   AccessType = "private"
	AccessPaid      AccessType = "paid"
	AccessWhitelist AccessType = "whitelist"
)

// Entry is one model listing
type Entry struct {
	ID          string     `yaml:"id" json:"id"`
	Name        string     `yaml:"name" json:"name"`
	Description string     `yaml:"description" json:"description"`
	ModelType   ModelType  `yaml:"modelType" json:"modelType"`
	Version     string     `yaml:"version" json:"version"`
	AccessType  AccessType `yaml:"accessType" json:"accessType"`
	PriceWei    uint64     `yaml:"priceWei" json:"priceWei"` // per inference
	Tags        []string   `yaml:"tags" json:"tags"`
	SizeBytes   uint64     `yaml:"sizeBytes" json:"sizeBytes"`
	Rating      float64    `yaml:"rating" json:"rating"`
	UpdatedAt   time.Time  `yaml:"updatedAt" json:"updatedAt"`
}

// Validate checks the fields every listing needs
func (e *Entry) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return fmt.Errorf("entry %q has no name", e.ID)
	}
	switch e.ModelType {
	case ModelCoreML, ModelONNX, ModelTensorFlow, ModelPyTorch, ModelCustom:
	case "":
		e.ModelType = ModelCustom
	default:
		return fmt.Errorf("entry %q: unknown model type %q", e.Name, e.ModelType)
	}
	switch e.AccessType {
	case AccessPublic, AccessPrivate, AccessPaid, AccessWhitelist:
	case "":
		e.AccessType = AccessPublic
	default:
		return fmt.Errorf("entry %q: unknown access type %q", e.Name, e.AccessType)
	}
	if e.Rating < 0 || e.Rating > 5 {
		return fmt.Errorf("entry %q: rating %.2f outside 0-5", e.Name, e.Rating)
	}
	if e.Version == "" {
		e.Version = "1.0.0"
	}
	return nil
}

// IsFree reports whether running the model costs nothing
func (e Entry) IsFree() bool {
	return e.AccessType != AccessPaid || e.PriceWei == 0
}

// Matches reports whether the query appears in the name, description, type or tags.
// Matching is case-insensitive; an empty query matches everything.
func (e Entry) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(e.Name), q) ||
		strings.Contains(strings.ToLower(e.Description), q) ||
		strings.Contains(string(e.ModelType), q) {
		return true
	}
	for _, tag := range e.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}
