package rag

import (
	"hash/fnv"
	"math"
	"regexp"
	"strings"
)

// embeddingDim is the fixed dimensionality of the toy embedding space.
const embeddingDim = 100

var wordPattern = regexp.MustCompile(`\w+`)

// Embed maps text to a fixed-dimension vector by hashing each word into a
// bucket and accumulating normalized term frequency, then L2-normalizing.
// It is a deliberately tiny stand-in for a real embedding model: good
// enough to rank tutorial documents, zero external dependencies.
func Embed(text string) []float64 {
	vector := make([]float64, embeddingDim)

	words := wordPattern.FindAllString(strings.ToLower(text), -1)
	if len(words) == 0 {
		return vector
	}

	weight := 1 / float64(len(words))
	for _, word := range words {
		vector[bucket(word)] += weight
	}

	norm := 0.0
	for _, value := range vector {
		norm += value * value
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for index := range vector {
			vector[index] /= norm
		}
	}

	return vector
}

// Cosine returns the cosine similarity of two equal-length vectors. Since
// [Embed] output is L2-normalized this reduces to a dot product.
func Cosine(left, right []float64) float64 {
	dot := 0.0
	for index := range left {
		dot += left[index] * right[index]
	}
	return dot
}

// bucket hashes a word into an embedding dimension.
func bucket(word string) int {
	hasher := fnv.New32a()
	hasher.Write([]byte(word))
	return int(hasher.Sum32() % embeddingDim)
}
