package syncer

// Reconcile computes the delete-set between a previously stored key list
// and a freshly fetched authoritative one: every stored key absent from
// fresh, in stored order. Fresh is treated as a membership set, so
// duplicates and ordering on that side are irrelevant. Pure and
// idempotent; applying it to keys that survived a prior reconciliation
// yields nothing new.
func Reconcile[K comparable](stored, fresh []K) []K {
	keep := make(map[K]struct{}, len(fresh))
	for _, k := range fresh {
		keep[k] = struct{}{}
	}

	var deleted []K
	for _, k := range stored {
		if _, ok := keep[k]; !ok {
			deleted = append(deleted, k)
		}
	}
	return deleted
}
