package domain

// Plan is the minimal set of storage operations that aligns the persisted
// slot set with freshly generated instances.
type Plan struct {
	ToCreate   []SlotInstance
	ToDelete   []SlotInstance
	ToPreserve []SlotInstance

	SkippedExisting int
	PreservedBooked int
}

// Reconcile diffs generated instances against the persisted set, matching
// on (date, start, end). Booked instances are never deleted, whatever the
// template now says. An available instance whose key the template no
// longer produces is deleted. A generated instance whose key already
// exists is skipped, not re-created, which makes re-publication of an
// unchanged template a no-op.
func Reconcile(generated, existing []SlotInstance) Plan {
	generatedKeys := make(map[SlotKey]struct{}, len(generated))
	for _, g := range generated {
		generatedKeys[g.Key()] = struct{}{}
	}

	var plan Plan
	existingKeys := make(map[SlotKey]SlotInstance, len(existing))
	for _, e := range existing {
		key := e.Key()
		existingKeys[key] = e

		if e.Status == SlotStatusBooked {
			plan.ToPreserve = append(plan.ToPreserve, e)
			plan.PreservedBooked++
			continue
		}
		if _, wanted := generatedKeys[key]; !wanted && e.Status == SlotStatusAvailable {
			plan.ToDelete = append(plan.ToDelete, e)
			continue
		}
		plan.ToPreserve = append(plan.ToPreserve, e)
	}

	for _, g := range generated {
		if _, ok := existingKeys[g.Key()]; !ok {
			plan.ToCreate = append(plan.ToCreate, g)
			continue
		}
		plan.SkippedExisting++
	}

	return plan
}
