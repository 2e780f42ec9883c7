package relay

import "math/rand"

const (
	maxLevel         = 24
	levelProbability = 0.25
)

// rankedEntry is one key in the ranking.
type rankedEntry struct {
	Key   string
	Score int
}

// before reports whether a ranks ahead of b: higher score first, then key.
func (a rankedEntry) before(b rankedEntry) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.Key < b.Key
}

type skipNode struct {
	entry rankedEntry
	next  []*skipNode
	span  []int // nodes skipped by next[i], counting the target
}

// skipList is an indexable skip list (Pugh 1990, with span counts as in
// Redis sorted sets). It is not safe for concurrent use.
type skipList struct {
	head   *skipNode
	level  int
	length int
	scores map[string]int
	rng    *rand.Rand
}

func newSkipList(seed int64) *skipList {
	return &skipList{
		head:   &skipNode{next: make([]*skipNode, maxLevel), span: make([]int, maxLevel)},
		level:  1,
		scores: make(map[string]int),
		rng:    rand.New(rand.NewSource(seed)),
	}
}

func (sl *skipList) randomLevel() int {
	level := 1
	for level < maxLevel && sl.rng.Float64() < levelProbability {
		level++
	}
	return level
}

// Set inserts key or moves it to its new score.
func (sl *skipList) Set(key string, score int) {
	if old, ok := sl.scores[key]; ok {
		if old == score {
			return
		}
		sl.delete(rankedEntry{Key: key, Score: old})
	}
	sl.insert(rankedEntry{Key: key, Score: score})
	sl.scores[key] = score
}

// Remove deletes key. It reports whether key was present.
func (sl *skipList) Remove(key string) bool {
	score, ok := sl.scores[key]
	if !ok {
		return false
	}
	sl.delete(rankedEntry{Key: key, Score: score})
	delete(sl.scores, key)
	return true
}

// Score returns key's score.
func (sl *skipList) Score(key string) (int, bool) {
	s, ok := sl.scores[key]
	return s, ok
}

// Len returns the number of keys.
func (sl *skipList) Len() int { return sl.length }

func (sl *skipList) insert(e rankedEntry) {
	var update [maxLevel]*skipNode
	var rank [maxLevel]int

	x := sl.head
	for i := sl.level - 1; i >= 0; i-- {
		if i < sl.level-1 {
			rank[i] = rank[i+1]
		}
		for x.next[i] != nil && x.next[i].entry.before(e) {
			rank[i] += x.span[i]
			x = x.next[i]
		}
		update[i] = x
	}

	level := sl.randomLevel()
	if level > sl.level {
		for i := sl.level; i < level; i++ {
			rank[i] = 0
			update[i] = sl.head
			update[i].span[i] = sl.length
		}
		sl.level = level
	}

	n := &skipNode{entry: e, next: make([]*skipNode, level), span: make([]int, level)}
	for i := 0; i < level; i++ {
		n.next[i] = update[i].next[i]
		update[i].next[i] = n
		n.span[i] = update[i].span[i] - (rank[0] - rank[i])
		update[i].span[i] = rank[0] - rank[i] + 1
	}
	for i := level; i < sl.level; i++ {
		update[i].span[i]++
	}
	sl.length++
}

func (sl *skipList) delete(e rankedEntry) {
	var update [maxLevel]*skipNode
	x := sl.head
	for i := sl.level - 1; i >= 0; i-- {
		for x.next[i] != nil && x.next[i].entry.before(e) {
			x = x.next[i]
		}
		update[i] = x
	}
	target := x.next[0]
	if target == nil || target.entry != e {
		return
	}
	for i := 0; i < sl.level; i++ {
		if update[i].next[i] == target {
			update[i].span[i] += target.span[i] - 1
			update[i].next[i] = target.next[i]
		} else {
			update[i].span[i]--
		}
	}
	for sl.level > 1 && sl.head.next[sl.level-1] == nil {
		sl.level--
	}
	sl.length--
}

// Rank returns key's 1-based rank, or 0 if key is absent.
func (sl *skipList) Rank(key string) int {
	score, ok := sl.scores[key]
	if !ok {
		return 0
	}
	e := rankedEntry{Key: key, Score: score}
	rank := 0
	x := sl.head
	for i := sl.level - 1; i >= 0; i-- {
		for x.next[i] != nil && (x.next[i].entry.before(e) || x.next[i].entry == e) {
			rank += x.span[i]
			x = x.next[i]
		}
		if x.entry == e {
			return rank
		}
	}
	return 0
}

// Range returns entries with rank in [start, start+n), start 1-based.
func (sl *skipList) Range(start, n int) []rankedEntry {
	if start < 1 || n <= 0 || start > sl.length {
		return nil
	}
	traversed := 0
	x := sl.head
	for i := sl.level - 1; i >= 0; i-- {
		for x.next[i] != nil && traversed+x.span[i] <= start {
			traversed += x.span[i]
			x = x.next[i]
		}
		if traversed == start {
			break
		}
	}
	out := make([]rankedEntry, 0, n)
	for ; x != nil && len(out) < n; x = x.next[0] {
		out = append(out, x.entry)
	}
	return out
}
