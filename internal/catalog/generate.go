package catalog

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	generatedTypes  = []ModelType{ModelCoreML, ModelONNX, ModelTensorFlow, ModelPyTorch, ModelCustom}
	generatedAccess = []AccessType{AccessPublic, AccessPublic, AccessPaid, AccessPaid, AccessPrivate, AccessWhitelist}
	nameSubjects    = []string{"Vision", "Speech", "Sentiment", "Summarizer", "Translator", "Detector", "Embedder", "Classifier", "Segmenter", "Ranker"}
	nameModifiers   = []string{"Tiny", "Base", "Large", "Distilled", "Quantized", "Turbo", "Edge", "Pro"}
	generatedTags   = []string{"nlp", "vision", "audio", "edge", "gpu", "int8", "fp16", "multilingual", "medical", "finance", "retrieval", "on-device"}
	sentences       = []string{
		"Trained on a curated public corpus with deduplication and safety filtering.",
		"Optimized for low latency inference on commodity hardware.",
		"Supports batched requests and streaming responses.",
		"Weights are encrypted at rest and decrypted inside the executor.",
		"Benchmarked against the previous release with a measurable accuracy gain.",
		"Revenue is shared with the dataset contributors listed in the manifest.",
		"Ships with a calibration set for post-training quantization.",
		"Inputs larger than the context window are truncated from the left.",
	}
)

// epoch anchors generated timestamps so a seed always yields the same catalog
var epoch = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

// Generate builds a deterministic synthetic catalog of n entries.
// Description lengths vary so rows wrap to different heights.
func Generate(n int, seed int64) []Entry {
	if n <= 0 {
		return nil
	}

	rng := rand.New(rand.NewSource(seed))
	entropy := ulid.Monotonic(rand.New(rand.NewSource(seed)), 0)
	entries := make([]Entry, n)

	for i := range entries {
		access := generatedAccess[rng.Intn(len(generatedAccess))]
		var price uint64
		if access == AccessPaid {
			price = uint64(rng.Intn(5000)+1) * 1_000_000_000_000
		}

		updated := epoch.Add(time.Duration(i) * time.Minute).Add(time.Duration(rng.Intn(3600)) * time.Second)

		descLen := 1 + rng.Intn(5)
		parts := make([]string, descLen)
		for j := range parts {
			parts[j] = sentences[rng.Intn(len(sentences))]
		}

		tagCount := rng.Intn(4)
		tags := make([]string, 0, tagCount)
		for j := 0; j < tagCount; j++ {
			tag := generatedTags[rng.Intn(len(generatedTags))]
			if !containsString(tags, tag) {
				tags = append(tags, tag)
			}
		}

		entries[i] = Entry{
			ID: ulid.MustNew(ulid.Timestamp(updated), entropy).String(),
			Name: fmt.Sprintf("%s %s %d",
				nameSubjects[rng.Intn(len(nameSubjects))],
				nameModifiers[rng.Intn(len(nameModifiers))],
				i+1),
			Description: strings.Join(parts, " "),
			ModelType:   generatedTypes[rng.Intn(len(generatedTypes))],
			Version:     fmt.Sprintf("%d.%d.%d", 1+rng.Intn(3), rng.Intn(10), rng.Intn(20)),
			AccessType:  access,
			PriceWei:    price,
			Tags:        tags,
			SizeBytes:   uint64(1+rng.Intn(4000)) * 1 << 20,
			Rating:      float64(rng.Intn(51)) / 10,
			UpdatedAt:   updated,
		}
	}

	return entries
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
