// Package lsh implements the textsim.Index contract with MinHash
// locality-sensitive hashing: character shingles hashed by seeded
// murmur3 into fixed-length signatures, plus a banded inverted index
// for candidate retrieval without pairwise comparison.
package lsh

import (
	"encoding/binary"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/twmb/murmur3"

	"github.com/SaviorKas/multidex/model"
	"github.com/SaviorKas/multidex/textsim"
)

// Options contains configuration options for the LSH index.
type Options struct {
	// ShingleSize is the character length of the shingles a text is
	// decomposed into.
	ShingleSize int
	// NumHashes is the signature length: the number of independent
	// min-hash functions.
	NumHashes int
	// Bands is the number of signature bands used for the inverted
	// bucket index. Must divide NumHashes.
	Bands int
}

// DefaultOptions contains the default configuration options for the
// LSH index.
var DefaultOptions = Options{
	ShingleSize: 3,
	NumHashes:   128,
	Bands:       32,
}

type bucketKey struct {
	band int
	hash uint64
}

// Index is a MinHash LSH index over one text attribute of a record set.
// Signature generation is deterministic for a given text and
// configuration, which makes query results reproducible.
type Index struct {
	opts    Options
	rows    int
	sigs    map[model.RecordID][]uint64
	buckets map[bucketKey]*roaring.Bitmap
}

var _ textsim.Index = (*Index)(nil)

// New creates a new LSH index.
func New(optFns ...func(o *Options)) (*Index, error) {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.ShingleSize < 1 {
		return nil, fmt.Errorf("lsh: shingle size must be positive, got %d", opts.ShingleSize)
	}
	if opts.NumHashes < 1 {
		return nil, fmt.Errorf("lsh: number of hashes must be positive, got %d", opts.NumHashes)
	}
	if opts.Bands < 1 || opts.NumHashes%opts.Bands != 0 {
		return nil, fmt.Errorf("lsh: bands (%d) must evenly divide hashes (%d)", opts.Bands, opts.NumHashes)
	}

	return &Index{
		opts:    opts,
		rows:    opts.NumHashes / opts.Bands,
		sigs:    make(map[model.RecordID][]uint64),
		buckets: make(map[bucketKey]*roaring.Bitmap),
	}, nil
}

// Add indexes the text attribute of a record.
func (i *Index) Add(id model.RecordID, text string) error {
	sig := i.Signature(text)
	i.sigs[id] = sig
	if sig == nil {
		return nil
	}

	for b := 0; b < i.opts.Bands; b++ {
		key := bucketKey{band: b, hash: bandHash(sig[b*i.rows : (b+1)*i.rows])}
		bm, ok := i.buckets[key]
		if !ok {
			bm = roaring.New()
			i.buckets[key] = bm
		}
		bm.Add(uint32(id))
	}
	return nil
}

// Len returns the number of indexed records.
func (i *Index) Len() int { return len(i.sigs) }

// Signature computes the min-hash signature of text. Empty or
// whitespace-only text yields a nil signature, which overlaps nothing.
func (i *Index) Signature(text string) []uint64 {
	shingles := shingle(normalize(text), i.opts.ShingleSize)
	if len(shingles) == 0 {
		return nil
	}

	sig := make([]uint64, i.opts.NumHashes)
	for h := range sig {
		min := uint64(math.MaxUint64)
		s1, s2 := hashSeeds(h)
		for _, s := range shingles {
			if v, _ := murmur3.SeedSum128(s1, s2, s); v < min {
				min = v
			}
		}
		sig[h] = min
	}
	return sig
}

// Candidates returns the records sharing at least one signature band
// with text. This is the unrestricted retrieval path used when no
// spatially filtered candidate set is available.
func (i *Index) Candidates(text string) *roaring.Bitmap {
	out := roaring.New()
	sig := i.Signature(text)
	if sig == nil {
		return out
	}
	for b := 0; b < i.opts.Bands; b++ {
		key := bucketKey{band: b, hash: bandHash(sig[b*i.rows : (b+1)*i.rows])}
		if bm, ok := i.buckets[key]; ok {
			out.Or(bm)
		}
	}
	return out
}

// Query scores candidates against text and returns at most topK of
// them, descending by estimated Jaccard similarity, ties broken by
// ascending record identifier. Candidates with zero signature overlap
// are excluded rather than scored as zero.
func (i *Index) Query(text string, candidates *roaring.Bitmap, topK int) ([]model.ScoredID, error) {
	if topK < 1 {
		return nil, textsim.ErrInvalidTopK
	}

	qsig := i.Signature(text)
	if qsig == nil {
		return []model.ScoredID{}, nil
	}

	if candidates == nil {
		candidates = i.Candidates(text)
	}

	var scored []model.ScoredID
	it := candidates.Iterator()
	for it.HasNext() {
		id := model.RecordID(it.Next())
		sig, ok := i.sigs[id]
		if !ok || sig == nil {
			continue
		}
		score := overlap(qsig, sig)
		if score == 0 {
			continue
		}
		scored = append(scored, model.ScoredID{ID: id, Score: score})
	}

	sort.SliceStable(scored, func(a, b int) bool {
		if scored[a].Score != scored[b].Score {
			return scored[a].Score > scored[b].Score
		}
		return scored[a].ID < scored[b].ID
	})

	if len(scored) > topK {
		scored = scored[:topK]
	}
	if scored == nil {
		scored = []model.ScoredID{}
	}
	return scored, nil
}

// overlap estimates Jaccard similarity as the fraction of agreeing
// signature positions.
func overlap(a, b []uint64) float64 {
	matches := 0
	for i := range a {
		if a[i] == b[i] {
			matches++
		}
	}
	return float64(matches) / float64(len(a))
}

func normalize(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// shingle decomposes text into overlapping runs of size runes. Text
// shorter than one shingle becomes a single shingle of its own.
func shingle(text string, size int) [][]byte {
	if text == "" {
		return nil
	}
	runes := []rune(text)
	if len(runes) <= size {
		return [][]byte{[]byte(text)}
	}

	out := make([][]byte, 0, len(runes)-size+1)
	for j := 0; j+size <= len(runes); j++ {
		out = append(out, []byte(string(runes[j:j+size])))
	}
	return out
}

func hashSeeds(h int) (uint64, uint64) {
	// Odd multipliers spread the per-function seeds across the space.
	return uint64(h)*0x9e3779b97f4a7c15 + 1, uint64(h)*0xc2b2ae3d27d4eb4f + 3
}

func bandHash(rows []uint64) uint64 {
	buf := make([]byte, 8*len(rows))
	for i, r := range rows {
		binary.LittleEndian.PutUint64(buf[i*8:], r)
	}
	return murmur3.Sum64(buf)
}
