package internal

// reconcileChildren rebuilds the child chain of returnFiber from newChildren,
// diffing against the previous generation's children (returnFiber.Alternate.Child).
// Reused children are flagged Update, children that must be inserted or moved are
// flagged Placement, and old children that are gone land in returnFiber.Deletions.
// Nil entries in newChildren are holes: they take an index but produce no fiber.
func reconcileChildren(returnFiber *Fiber, newChildren []*Element) {
	var oldFiber *Fiber
	if returnFiber.Alternate != nil {
		oldFiber = returnFiber.Alternate.Child
	}

	// nothing to track on initial mount, the whole subtree gets inserted at once
	shouldTrackSideEffects := returnFiber.Alternate != nil

	returnFiber.Child = nil

	var previousNewFiber *Fiber
	appendChild := func(newFiber *Fiber) {
		if previousNewFiber == nil {
			returnFiber.Child = newFiber
		} else {
			previousNewFiber.Sibling = newFiber
		}
		previousNewFiber = newFiber
	}

	// rightmost old index among reused children placed so far
	lastPlacedIndex := 0
	newIndex := 0

	// 1. walk both lists while they line up
	var nextOldFiber *Fiber
	for ; oldFiber != nil && newIndex < len(newChildren); newIndex++ {
		newChild := newChildren[newIndex]
		if newChild == nil {
			if oldFiber.Index == newIndex {
				// the hole takes the old node's position, nothing later may reuse it by position
				break
			}
			continue
		}

		if oldFiber.Index > newIndex {
			// a later old node precedes this one: the old order is disturbed
			nextOldFiber = oldFiber
			oldFiber = nil
		} else {
			nextOldFiber = oldFiber.Sibling
		}

		if !sameNode(newChild, oldFiber) {
			if oldFiber == nil {
				oldFiber = nextOldFiber
			}
			break
		}

		newFiber := useFiber(oldFiber, newChild, returnFiber)
		lastPlacedIndex = placeChild(newFiber, lastPlacedIndex, newIndex, shouldTrackSideEffects)
		appendChild(newFiber)

		oldFiber = nextOldFiber
	}

	// 2. new list exhausted, the rest of the old list goes
	if newIndex == len(newChildren) {
		deleteRemainingChildren(returnFiber, oldFiber)
		return
	}

	// 3. old list exhausted, the rest of the new list is created
	if oldFiber == nil {
		for ; newIndex < len(newChildren); newIndex++ {
			newChild := newChildren[newIndex]
			if newChild == nil {
				continue
			}

			newFiber := createFiberFromElement(newChild, returnFiber)
			lastPlacedIndex = placeChild(newFiber, lastPlacedIndex, newIndex, shouldTrackSideEffects)
			appendChild(newFiber)
		}
		return
	}

	// 4. both remain: match the rest of the new list against the rest of the old one
	existingChildren := mapRemainingChildren(oldFiber)
	reused := make(map[*Fiber]bool, len(existingChildren))

	for ; newIndex < len(newChildren); newIndex++ {
		newChild := newChildren[newIndex]
		if newChild == nil {
			continue
		}

		var newFiber *Fiber

		k := keyOf(newChild.Key, newIndex)
		if matched, ok := existingChildren[k]; ok && sameNode(newChild, matched) {
			newFiber = useFiber(matched, newChild, returnFiber)
			delete(existingChildren, k)
			reused[matched] = true
		} else {
			newFiber = createFiberFromElement(newChild, returnFiber)
		}

		lastPlacedIndex = placeChild(newFiber, lastPlacedIndex, newIndex, shouldTrackSideEffects)
		appendChild(newFiber)
	}

	if shouldTrackSideEffects {
		// whatever was not matched goes, in old order so commits are deterministic
		for old := oldFiber; old != nil; old = old.Sibling {
			if !reused[old] {
				deleteChild(returnFiber, old)
			}
		}
	}
}

// useFiber clones an old fiber as the next generation for newChild.
func useFiber(old *Fiber, newChild *Element, returnFiber *Fiber) *Fiber {
	clone := createWorkInProgress(old, newChild.Props, newChild.Children)
	clone.Flags |= Update
	clone.Return = returnFiber

	return clone
}

// placeChild records the new index of newFiber and flags it for placement
// when it has to move. It returns the updated lastPlacedIndex.
func placeChild(newFiber *Fiber, lastPlacedIndex, newIndex int, shouldTrackSideEffects bool) int {
	newFiber.Index = newIndex

	if !shouldTrackSideEffects {
		return lastPlacedIndex
	}

	current := newFiber.Alternate
	if current == nil {
		// inserted
		newFiber.Flags |= Placement
		return lastPlacedIndex
	}

	oldIndex := current.Index
	if oldIndex < lastPlacedIndex {
		// moved behind a node that used to come after it
		newFiber.Flags |= Placement
		return lastPlacedIndex
	}

	// stays in place
	return oldIndex
}

type childKey struct {
	key   string
	index int
}

// keyOf is the phase 4 lookup key: the explicit key, or the position when there is none.
func keyOf(key string, index int) childKey {
	if key != "" {
		return childKey{key: key, index: -1}
	}

	return childKey{index: index}
}

func mapRemainingChildren(currentFirstChild *Fiber) map[childKey]*Fiber {
	existingChildren := make(map[childKey]*Fiber)

	for child := currentFirstChild; child != nil; child = child.Sibling {
		existingChildren[keyOf(child.Key, child.Index)] = child
	}

	return existingChildren
}

func deleteChild(returnFiber *Fiber, childToDelete *Fiber) {
	returnFiber.Deletions = append(returnFiber.Deletions, childToDelete)
}

func deleteRemainingChildren(returnFiber *Fiber, currentFirstChild *Fiber) {
	for child := currentFirstChild; child != nil; child = child.Sibling {
		deleteChild(returnFiber, child)
	}
}

// sameNode reports whether an old fiber can be reused for a new element:
// both present, same type, same key (no key on both sides counts as equal).
func sameNode(el *Element, f *Fiber) bool {
	return el != nil && f != nil && el.Type == f.Type && el.Key == f.Key
}
