package table

import (
	xxhash "github.com/cespare/xxhash/v2"
)

const (
	labelIndexCapacityFactor = 1.3
	labelIndexLoadFactor     = 0.75
	labelIndexGrowthFactor   = 2
	labelHashSignBitMask     = uint64(0x7FFFFFFFFFFFFFFF)
)

// LabelIndex maps row labels to their positions using xxhash bucketed
// chaining. Duplicate labels accumulate positions in insertion order.
type LabelIndex struct {
	buckets    [][]labelEntry
	capacity   int
	size       int
	loadFactor float64
}

type labelEntry struct {
	key       string
	positions []int
}

// NewLabelIndex creates an index sized for the estimated label count.
func NewLabelIndex(estimatedSize int) *LabelIndex {
	capacity := nextPowerOfTwo(int(float64(estimatedSize) * labelIndexCapacityFactor))
	return &LabelIndex{
		buckets:    make([][]labelEntry, capacity),
		capacity:   capacity,
		loadFactor: labelIndexLoadFactor,
	}
}

// BuildLabelIndex indexes a label slice by position.
func BuildLabelIndex(labels []string) *LabelIndex {
	ix := NewLabelIndex(len(labels))
	for pos, label := range labels {
		ix.Put(label, pos)
	}
	return ix
}

// Put records a label occurrence at a position.
func (ix *LabelIndex) Put(key string, position int) {
	if ix.capacity <= 0 {
		return
	}
	hash := xxhash.Sum64String(key)
	bucketIdx := int((hash & labelHashSignBitMask) % uint64(ix.capacity))

	for i := range ix.buckets[bucketIdx] {
		if ix.buckets[bucketIdx][i].key == key {
			ix.buckets[bucketIdx][i].positions = append(ix.buckets[bucketIdx][i].positions, position)
			return
		}
	}

	ix.buckets[bucketIdx] = append(ix.buckets[bucketIdx], labelEntry{
		key:       key,
		positions: []int{position},
	})
	ix.size++

	if float64(ix.size) > float64(ix.capacity)*ix.loadFactor {
		ix.resize()
	}
}

// Get returns the positions recorded for a label.
func (ix *LabelIndex) Get(key string) ([]int, bool) {
	if ix.capacity <= 0 {
		return nil, false
	}
	hash := xxhash.Sum64String(key)
	bucketIdx := int((hash & labelHashSignBitMask) % uint64(ix.capacity))

	for _, entry := range ix.buckets[bucketIdx] {
		if entry.key == key {
			return entry.positions, true
		}
	}
	return nil, false
}

// First returns the first position for a label, or -1 when absent.
func (ix *LabelIndex) First(key string) int {
	positions, ok := ix.Get(key)
	if !ok {
		return -1
	}
	return positions[0]
}

// Size returns the distinct label count.
func (ix *LabelIndex) Size() int { return ix.size }

func (ix *LabelIndex) resize() {
	newCapacity := ix.capacity * labelIndexGrowthFactor
	if newCapacity <= 0 {
		return
	}
	newBuckets := make([][]labelEntry, newCapacity)
	for _, bucket := range ix.buckets {
		for _, entry := range bucket {
			hash := xxhash.Sum64String(entry.key)
			newBucketIdx := int((hash & labelHashSignBitMask) % uint64(newCapacity))
			newBuckets[newBucketIdx] = append(newBuckets[newBucketIdx], entry)
		}
	}
	ix.buckets = newBuckets
	ix.capacity = newCapacity
}

func nextPowerOfTwo(n int) int {
	if n < 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
