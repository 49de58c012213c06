package store

import (
	"bytes"
	"crypto/rand"
	"sort"
	"testing"

	"github.com/iov-one/quickex/errors"
	"github.com/iov-one/quickex/weavetest/assert"
)

// TestSuite runs the same checks against any CacheableKVStore
// implementation. Both the btree MemStore and the iavl adapter use it.
type TestSuite struct {
	makeBase TestStoreConstructor
}

type TestStoreConstructor func() (base CacheableKVStore, cleanup func())

func NewTestSuite(constructor TestStoreConstructor) *TestSuite {
	return &TestSuite{
		makeBase: constructor,
	}
}

// GetSet follows one deposit and one withdrawal through cache layers, the
// way the engine and the escrow controller stack them.
func (s *TestSuite) GetSet(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	var (
		conf    = []byte("_c:escrow")
		entry   = []byte("escrow:c0ffee")
		custody = []byte("cash:custodyQEX")
	)
	s.AssertGetHas(t, base, conf, nil, false)
	assert.Nil(t, base.Set(conf, []byte("gates open")))
	s.AssertGetHas(t, base, conf, []byte("gates open"), true)

	// a block sees the base layer, its writes stay local until written
	deposit := base.CacheWrap()
	s.AssertGetHas(t, deposit, conf, []byte("gates open"), true)
	assert.Nil(t, deposit.Set(entry, []byte("pending")))
	assert.Nil(t, deposit.Set(custody, []byte("40")))
	s.AssertGetHas(t, deposit, entry, []byte("pending"), true)
	s.AssertGetHas(t, base, entry, nil, false)
	assert.Nil(t, deposit.Write())
	s.AssertGetHas(t, base, entry, []byte("pending"), true)
	s.AssertGetHas(t, base, custody, []byte("40"), true)

	// a failed withdrawal is discarded
	failed := base.CacheWrap()
	assert.Nil(t, failed.Set(entry, []byte("spent")))
	assert.Nil(t, failed.Delete(custody))
	failed.Discard()
	s.AssertGetHas(t, base, entry, []byte("pending"), true)
	s.AssertGetHas(t, base, custody, []byte("40"), true)

	// a successful one is written
	withdraw := base.CacheWrap()
	assert.Nil(t, withdraw.Set(entry, []byte("spent")))
	assert.Nil(t, withdraw.Delete(custody))
	s.AssertGetHas(t, withdraw, custody, nil, false)
	assert.Nil(t, withdraw.Write())
	s.AssertGetHas(t, base, entry, []byte("spent"), true)
	s.AssertGetHas(t, base, custody, nil, false)
	s.AssertGetHas(t, base, conf, []byte("gates open"), true)
}

// CacheConflicts checks that a child layer can overwrite and delete values
// of its parent without the parent noticing before the write.
func (s *TestSuite) CacheConflicts(t *testing.T) {
	var (
		entry   = []byte("escrow:c0ffee")
		other   = []byte("escrow:beef")
		alice   = []byte("cash:aliceQEX")
		custody = []byte("cash:custodyQEX")
	)

	cases := map[string]struct {
		parentOps     []Op
		childOps      []Op
		parentQueries []Model // Key is what we query, Value is what we expect
		childQueries  []Model // Key is what we query, Value is what we expect
	}{
		"deposit moves funds and adds an entry": {
			parentOps: []Op{SetOp(alice, []byte("100"))},
			childOps:  []Op{SetOp(alice, []byte("60")), SetOp(custody, []byte("40")), SetOp(entry, []byte("pending"))},
			parentQueries: []Model{
				Pair(alice, []byte("100")), Pair(custody, nil), Pair(entry, nil),
			},
			childQueries: []Model{
				Pair(alice, []byte("60")), Pair(custody, []byte("40")), Pair(entry, []byte("pending")),
			},
		},
		"withdraw empties custody and marks the entry": {
			parentOps: []Op{SetOp(custody, []byte("40")), SetOp(entry, []byte("pending")), SetOp(other, []byte("pending"))},
			childOps:  []Op{DelOp(custody), SetOp(entry, []byte("spent"))},
			parentQueries: []Model{
				Pair(custody, []byte("40")), Pair(entry, []byte("pending")), Pair(other, []byte("pending")),
			},
			childQueries: []Model{
				Pair(custody, nil), Pair(entry, []byte("spent")), Pair(other, []byte("pending")),
			},
		},
		"deleted and set again": {
			parentOps:     []Op{SetOp(entry, []byte("pending"))},
			childOps:      []Op{DelOp(entry), SetOp(entry, []byte("spent"))},
			parentQueries: []Model{Pair(entry, []byte("pending"))},
			childQueries:  []Model{Pair(entry, []byte("spent"))},
		},
		"set and deleted again": {
			childOps:      []Op{SetOp(other, []byte("pending")), DelOp(other)},
			parentQueries: []Model{Pair(other, nil)},
			childQueries:  []Model{Pair(other, nil)},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			parent, cleanup := s.makeBase()
			defer cleanup()

			for _, op := range tc.parentOps {
				assert.Nil(t, op.Apply(parent))
			}

			child := parent.CacheWrap()
			for _, op := range tc.childOps {
				assert.Nil(t, op.Apply(child))
			}

			for _, q := range tc.parentQueries {
				s.AssertGetHas(t, parent, q.Key, q.Value, q.Value != nil)
			}
			for _, q := range tc.childQueries {
				s.AssertGetHas(t, child, q.Key, q.Value, q.Value != nil)
			}

			// once written the parent shows the child state
			assert.Nil(t, child.Write())
			for _, q := range tc.childQueries {
				s.AssertGetHas(t, parent, q.Key, q.Value, q.Value != nil)
			}
		})
	}
}

// FuzzIterator checks ranges over random keys, with random deletes in the
// child layer.
func (s *TestSuite) FuzzIterator(t *testing.T) {
	const size = 50

	toSet := randModels(size, 8, 40)
	child := append(makeSetOps(toSet...), makeDelOps(randModels(20, 8, 40)...)...)
	parentSet := randModels(size, 8, 40)
	parent := append(makeSetOps(parentSet...), makeDelOps(randModels(20, 8, 40)...)...)

	cases := map[string]iterCase{
		"child over an empty parent": {
			child:   child,
			queries: rangeQueries(sortModels(toSet)),
		},
		"child merged with parent": {
			pre:     parent,
			child:   child,
			queries: rangeQueries(sortModels(append(toSet, parentSet...))),
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			base, cleanup := s.makeBase()
			defer cleanup()
			tc.verify(t, base)
		})
	}
}

// rangeQueries returns unbounded, start bounded, end bounded and fully
// bounded queries over sorted models, in both directions.
func rangeQueries(sorted []Model) []rangeQuery {
	n := len(sorted)
	lo, hi := n/5, n-n/4
	return []rangeQuery{
		{nil, nil, false, sorted},
		{sorted[lo].Key, nil, false, sorted[lo:]},
		{nil, sorted[hi].Key, false, sorted[:hi]},
		{sorted[lo].Key, sorted[hi].Key, false, sorted[lo:hi]},
		{nil, nil, true, reverse(sorted)},
		{sorted[lo].Key, nil, true, reverse(sorted[lo:])},
		{nil, sorted[hi].Key, true, reverse(sorted[:hi])},
		{sorted[lo].Key, sorted[hi].Key, true, reverse(sorted[lo:hi])},
	}
}

// IteratorWithConflicts covers iteration where the child layer overwrites
// or deletes keys of the parent.
func (s *TestSuite) IteratorWithConflicts(t *testing.T) {
	ms := randModels(6, 20, 100)
	a, a2, b, b2, c, d := ms[0], ms[1], ms[2], ms[3], ms[4], ms[5]
	// a2 and b2 replace the values of a and b
	a2.Key = a.Key
	b2.Key = b.Key

	abc := sortModels([]Model{a, b, c})
	replaced := sortModels([]Model{a2, b2, c, d})

	cases := map[string]iterCase{
		"child only": {
			child: makeSetOps(a, b, c),
			queries: []rangeQuery{
				{nil, nil, false, abc},
				{abc[1].Key, abc[2].Key, false, abc[1:2]},
				{nil, nil, true, reverse(abc)},
			},
		},
		"parent only": {
			pre: makeSetOps(a, b, c),
			queries: []rangeQuery{
				{nil, nil, false, abc},
				{nil, nil, true, reverse(abc)},
			},
		},
		"split between layers": {
			pre:   makeSetOps(a, b),
			child: makeSetOps(c),
			queries: []rangeQuery{
				{nil, nil, false, abc},
				{abc[1].Key, abc[2].Key, false, abc[1:2]},
				{nil, nil, true, reverse(abc)},
			},
		},
		"child values win": {
			pre:   makeSetOps(a, b, c),
			child: makeSetOps(a2, b2, d),
			queries: []rangeQuery{
				{nil, nil, false, replaced},
				{replaced[1].Key, replaced[3].Key, false, replaced[1:3]},
				{nil, nil, true, reverse(replaced)},
			},
		},
		"child deletes are skipped": {
			pre:   makeSetOps(a, c, d),
			child: makeDelOps(a, b, d),
			queries: []rangeQuery{
				{nil, nil, false, []Model{c}},
				{nil, c.Key, false, nil},
			},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			base, cleanup := s.makeBase()
			defer cleanup()
			tc.verify(t, base)
		})
	}
}

// PrefixScan ensures that a range built from a key prefix returns only the
// entries of that prefix, which is how model buckets list their content.
func (s *TestSuite) PrefixScan(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	entries := []Model{
		Pair([]byte("escrow:a"), []byte("1")),
		Pair([]byte("escrow:b"), []byte("2")),
		Pair([]byte("escrox:c"), []byte("3")),
		Pair([]byte("escrov:z"), []byte("4")),
	}
	for _, op := range makeSetOps(entries...) {
		assert.Nil(t, op.Apply(base))
	}

	child := base.CacheWrap()
	assert.Nil(t, child.Set([]byte("escrow:c"), []byte("5")))
	assert.Nil(t, child.Delete([]byte("escrow:a")))

	iterCase{
		queries: []rangeQuery{
			{[]byte("escrow:"), []byte("escrow;"), false, []Model{
				Pair([]byte("escrow:b"), []byte("2")),
				Pair([]byte("escrow:c"), []byte("5")),
			}},
			{[]byte("escrow:"), []byte("escrow;"), true, []Model{
				Pair([]byte("escrow:c"), []byte("5")),
				Pair([]byte("escrow:b"), []byte("2")),
			}},
		},
	}.verifyOn(t, child)
}

func (s *TestSuite) AssertGetHas(t testing.TB, kv ReadOnlyKVStore, key, val []byte, has bool) {
	t.Helper()
	got, err := kv.Get(key)
	assert.Nil(t, err)
	assert.Equal(t, val, got)
	exists, err := kv.Has(key)
	assert.Nil(t, err)
	assert.Equal(t, has, exists)
}

// nolint
func randBytes(length int) []byte {
	res := make([]byte, length)
	rand.Read(res)
	return res
}

// randKeys returns count random keys of given size
func randKeys(count, size int) [][]byte {
	res := make([][]byte, count)
	for i := 0; i < count; i++ {
		res[i] = randBytes(size)
	}
	return res
}

// randModels produces a random set of models
func randModels(count, keySize, valueSize int) []Model {
	models := make([]Model, count)
	for i := 0; i < count; i++ {
		models[i].Key = randBytes(keySize)
		models[i].Value = randBytes(valueSize)
	}
	return models
}

// iterCase is a test case for iteration
type iterCase struct {
	pre     []Op
	child   []Op
	queries []rangeQuery
}

func (i iterCase) verify(t testing.TB, base CacheableKVStore) {
	for _, op := range i.pre {
		assert.Nil(t, op.Apply(base))
	}

	child := base.CacheWrap()
	for _, op := range i.child {
		assert.Nil(t, op.Apply(child))
	}
	i.verifyOn(t, child)
}

// verifyOn runs all queries against given store.
func (i iterCase) verifyOn(t testing.TB, child ReadOnlyKVStore) {
	t.Helper()
	for _, q := range i.queries {
		var iter Iterator
		var err error
		if q.reverse {
			iter, err = child.ReverseIterator(q.start, q.end)
		} else {
			iter, err = child.Iterator(q.start, q.end)
		}
		assert.Nil(t, err)

		// Make sure proper iteration works.
		for i := 0; i < len(q.expected); i++ {
			key, value, err := iter.Next()
			assert.Nil(t, err)
			if !bytes.Equal(q.expected[i].Key, key) {
				t.Fatalf("Expected key: %X\nGot keys %d = %X", q.expected[i].Key, i, key)
			}
			assert.Equal(t, q.expected[i].Value, value)
		}
		_, _, err = iter.Next()
		if !errors.ErrIteratorDone.Is(err) {
			t.Fatalf("Expected ErrIteratorDone, got %+v", err)
		}
	}
}

// range query checks the results of iteration
type rangeQuery struct {
	start    []byte
	end      []byte
	reverse  bool
	expected []Model
}

// reverse returns a copy of the slice with elements in reverse order
func reverse(models []Model) []Model {
	max := len(models)
	res := make([]Model, max)
	for i := 0; i < max; i++ {
		res[i] = models[max-1-i]
	}
	return res
}

// sortModels returns a copy of the models sorted by key
func sortModels(models []Model) []Model {
	res := make([]Model, len(models))
	copy(res, models)
	// sort by key
	sort.Slice(res, func(i, j int) bool {
		return bytes.Compare(res[i].Key, res[j].Key) < 0
	})
	return res
}

func makeSetOps(ms ...Model) []Op {
	res := make([]Op, len(ms))
	for i, m := range ms {
		res[i] = SetOp(m.Key, m.Value)
	}
	return res
}

func makeDelOps(ms ...Model) []Op {
	res := make([]Op, len(ms))
	for i, m := range ms {
		res[i] = DelOp(m.Key)
	}
	return res
}
