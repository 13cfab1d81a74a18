package librertos

// listNode is an intrusive doubly linked list node, embedded in Task
// (once for delay-list membership, once for event-list membership)
// and in Timer. It is grounded on original_source/OSlist.h's
// task_list_node_t / OSlist.c, with one deliberate change noted in
// the design notes: instead of casting a *listHead to *listNode and
// relying on struct-prefix layout to alias the two, the sentinel is a
// real listNode value embedded in listHead. Every traversal compares
// against &listHead.sentinel instead of relying on pointer aliasing,
// which gives the same O(1) head-insert behaviour without unsafe
// casts.
type listNode struct {
	next, prev *listNode
	value      Tick
	list       *listHead // nil ⇔ not linked in any list
	owner      any
}

// listHead is a list's sentinel plus length counter. The zero value
// is not ready to use; call headInit first.
type listHead struct {
	sentinel listNode
	length   int
}

// headInit initializes an empty list. Complexity O(1).
func (l *listHead) headInit() {
	l.sentinel.next = &l.sentinel
	l.sentinel.prev = &l.sentinel
	l.sentinel.list = nil
	l.length = 0
}

// nodeInit initializes a node not currently linked in any list.
// Complexity O(1).
func nodeInit(n *listNode, owner any) {
	n.next = nil
	n.prev = nil
	n.value = 0
	n.list = nil
	n.owner = owner
}

// isEmpty reports whether the list has no linked nodes.
func (l *listHead) isEmpty() bool {
	return l.length == 0
}

// getFirst returns the lowest-ordered node, or nil if empty.
func (l *listHead) getFirst() *listNode {
	if l.isEmpty() {
		return nil
	}
	return l.sentinel.next
}

// getLast returns the highest-ordered node, or nil if empty.
func (l *listHead) getLast() *listNode {
	if l.isEmpty() {
		return nil
	}
	return l.sentinel.prev
}

// isLinked reports whether n is currently linked in l. This is the
// back-reference predicate the design notes call for: node.list is
// never compared for anything but "am I linked in list X", so a
// pointer-identity check here is sufficient even though, in a
// stricter ownership model, node.list would be an opaque handle
// rather than a raw pointer.
func (n *listNode) isLinked(l *listHead) bool {
	return n.list == l
}

// insertAfter links node immediately after pos, which must already be
// linked in l (or be &l.sentinel). Complexity O(1).
func (l *listHead) insertAfter(pos, node *listNode) {
	node.next = pos.next
	node.prev = pos
	pos.next.prev = node
	pos.next = node
	node.list = l
	l.length++
}

// insertFirst links node at the head of l (lowest order). Complexity
// O(1).
func (l *listHead) insertFirst(node *listNode) {
	l.insertAfter(&l.sentinel, node)
}

// insertLast links node at the tail of l (highest order). Complexity
// O(1).
func (l *listHead) insertLast(node *listNode) {
	l.insertAfter(l.sentinel.prev, node)
}

// insertOrdered links node in ascending order of value: the list
// stays sorted tail-high, head-low, with equal keys keeping insertion
// order (new node goes after existing equal-keyed nodes, i.e. before
// the first node whose value is strictly greater). Complexity O(n).
func (l *listHead) insertOrdered(node *listNode, value Tick) {
	node.value = value
	pos := &l.sentinel
	for n := l.sentinel.next; n != &l.sentinel; n = n.next {
		if value < n.value {
			break
		}
		pos = n
	}
	l.insertAfter(pos, node)
}

// insertByPriority links node in ascending order of its owning task's
// Priority(), used to reposition an already-queued event waiter after
// its effective priority changes (mutex priority inheritance). Ties
// are broken the same way insertAfter's caller in pendWithTimeout
// does: a node goes below (head-ward of) every existing node whose
// priority is already >= its own, preserving FIFO among equal
// priorities. Complexity O(n).
func (l *listHead) insertByPriority(node *listNode, priority Priority) {
	pos := &l.sentinel
	for n := l.sentinel.next; n != &l.sentinel; n = n.next {
		if n.owner.(*Task).priority >= priority {
			break
		}
		pos = n
	}
	l.insertAfter(pos, node)
}

// moveFirstToLast moves l's head node to the tail, a no-op on an
// empty or single-node list. Complexity O(1). No kernel primitive
// currently calls this — the ready table holds at most one task per
// priority, so there is no equal-priority run queue to rotate — but
// it is part of the intrusive list's documented operation set, so it
// is implemented here regardless of present-day call sites.
func (l *listHead) moveFirstToLast() {
	if l.length < 2 {
		return
	}
	first := l.sentinel.next
	remove(first)
	l.insertLast(first)
}

// remove unlinks node from whatever list it is currently in. It is a
// no-op if node is not linked. Complexity O(1).
func remove(node *listNode) {
	if node.list == nil {
		return
	}
	node.prev.next = node.next
	node.next.prev = node.prev
	node.list.length--
	node.next = nil
	node.prev = nil
	node.list = nil
}
