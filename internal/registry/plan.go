package registry

import "fmt"

// PlanItem is one slot in the practice plan.
type PlanItem struct {
	BoardID string `json:"boardId"`
	Note    string `json:"note,omitempty"`
	Minutes int    `json:"minutes,omitempty"`
}

func (r *Registry) Plan() []PlanItem {
	return append([]PlanItem(nil), r.plan...)
}

func (r *Registry) AddPlanItem(boardID, note string, minutes int) error {
	if _, err := r.Get(boardID); err != nil {
		return err
	}
	r.plan = append(r.plan, PlanItem{BoardID: boardID, Note: note, Minutes: max(minutes, 0)})
	return nil
}

func (r *Registry) RemovePlanItem(i int) error {
	if i < 0 || i >= len(r.plan) {
		return fmt.Errorf("plan item %d out of range", i)
	}
	r.plan = append(r.plan[:i], r.plan[i+1:]...)
	return nil
}

// MovePlanItem moves the item at from so it ends up at index to.
func (r *Registry) MovePlanItem(from, to int) error {
	if from < 0 || from >= len(r.plan) || to < 0 || to >= len(r.plan) {
		return fmt.Errorf("plan move %d->%d out of range", from, to)
	}
	item := r.plan[from]
	r.plan = append(r.plan[:from], r.plan[from+1:]...)
	r.plan = append(r.plan[:to], append([]PlanItem{item}, r.plan[to:]...)...)
	return nil
}

// PlanMinutes is the total planned time.
func (r *Registry) PlanMinutes() int {
	total := 0
	for _, p := range r.plan {
		total += p.Minutes
	}
	return total
}
