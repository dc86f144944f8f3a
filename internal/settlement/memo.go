package settlement

// boundedMemo is a memoization map with insertion-order eviction: once the
// cap is exceeded the oldest-inserted entry is dropped. It is deliberately
// not recency-based — cached values are pure functions of their key, so
// eviction policy only affects recompute cost, never results.
type boundedMemo[K comparable, V any] struct {
	cap    int
	values map[K]V
	order  []K
}

func newBoundedMemo[K comparable, V any](cap int) *boundedMemo[K, V] {
	return &boundedMemo[K, V]{
		cap:    cap,
		values: make(map[K]V, cap),
	}
}

func (m *boundedMemo[K, V]) get(k K) (V, bool) {
	v, ok := m.values[k]
	return v, ok
}

func (m *boundedMemo[K, V]) put(k K, v V) {
	if _, ok := m.values[k]; !ok {
		m.order = append(m.order, k)
		if len(m.order) > m.cap {
			oldest := m.order[0]
			m.order = m.order[1:]
			delete(m.values, oldest)
		}
	}
	m.values[k] = v
}

func (m *boundedMemo[K, V]) delete(k K) {
	if _, ok := m.values[k]; !ok {
		return
	}
	delete(m.values, k)
	for i, o := range m.order {
		if o == k {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

func (m *boundedMemo[K, V]) len() int { return len(m.values) }
