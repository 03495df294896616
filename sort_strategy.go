package main

import (
	"sort"

	"github.com/maruel/natural"
)

// SortStrategy defines the interface for catalog ordering strategies
type SortStrategy interface {
	// Sort returns a new sorted slice without modifying the original
	Sort(entries []Entry) []Entry
	// Name returns the human-readable name of the strategy
	Name() string
	// ID returns the identifier used in the config file
	ID() string
}

// SimpleSortStrategy orders entries by byte-wise comparison of the file name
type SimpleSortStrategy struct{}

func (s *SimpleSortStrategy) Sort(entries []Entry) []Entry {
	if len(entries) == 0 {
		return []Entry{}
	}

	// Create a copy to avoid modifying the original
	result := make([]Entry, len(entries))
	copy(result, entries)

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].FileName() < result[j].FileName()
	})

	return result
}

func (s *SimpleSortStrategy) Name() string {
	return "Simple"
}

func (s *SimpleSortStrategy) ID() string {
	return SortSimple
}

// NaturalSortStrategy implements natural sorting using maruel/natural.
// Ties are broken byte-wise so the order stays total.
type NaturalSortStrategy struct{}

func (s *NaturalSortStrategy) Sort(entries []Entry) []Entry {
	if len(entries) == 0 {
		return []Entry{}
	}

	result := make([]Entry, len(entries))
	copy(result, entries)

	sort.SliceStable(result, func(i, j int) bool {
		a, b := result[i].FileName(), result[j].FileName()
		if natural.Less(a, b) {
			return true
		}
		if natural.Less(b, a) {
			return false
		}
		return a < b
	})

	return result
}

func (s *NaturalSortStrategy) Name() string {
	return "Natural"
}

func (s *NaturalSortStrategy) ID() string {
	return SortNatural
}

// GetSortStrategy returns the strategy for the given config id
func GetSortStrategy(sortMethod string) SortStrategy {
	switch sortMethod {
	case SortNatural:
		return &NaturalSortStrategy{}
	default:
		return &SimpleSortStrategy{} // Byte order is the default
	}
}

// GetAllSortStrategies returns all available sort strategies
func GetAllSortStrategies() []SortStrategy {
	return []SortStrategy{
		&SimpleSortStrategy{},
		&NaturalSortStrategy{},
	}
}
