// Package engine implements the timetable assignment core: bulk generation,
// manual assignment validation, and the per-section grid projection. Every
// function operates on caller-supplied snapshots and entity resolvers; nothing
// here touches storage. Callers mutating the assignment collection must
// serialize those calls — the engine assumes single-writer semantics.
package engine

import (
	"github.com/samber/lo"

	"github.com/unisched/course-scheduler-api/internal/models"
)

// Snapshot carries ordered copies of every schedulable collection. Slice
// order is significant: sections, department course lists, time slots, and
// rooms are all walked in the order given here, which makes generation
// deterministic and reproducible.
type Snapshot struct {
	Sections    []models.Section
	Departments []models.Department
	Instructors []models.Instructor
	Courses     []models.Course
	Rooms       []models.Room
	TimeSlots   []models.TimeSlot
}

// Resolvers are flat id-to-entity indexes over a snapshot. Assignments hold
// opaque ids only; any entity access goes through these maps.
type Resolvers struct {
	Instructors map[string]models.Instructor
	Courses     map[string]models.Course
	Rooms       map[string]models.Room
	Departments map[string]models.Department
	Sections    map[string]models.Section
	TimeSlots   map[string]models.TimeSlot
}

// BuildResolvers indexes a snapshot by entity id.
func BuildResolvers(snap Snapshot) Resolvers {
	return Resolvers{
		Instructors: lo.KeyBy(snap.Instructors, func(i models.Instructor) string { return i.ID }),
		Courses:     lo.KeyBy(snap.Courses, func(c models.Course) string { return c.ID }),
		Rooms:       lo.KeyBy(snap.Rooms, func(r models.Room) string { return r.ID }),
		Departments: lo.KeyBy(snap.Departments, func(d models.Department) string { return d.ID }),
		Sections:    lo.KeyBy(snap.Sections, func(s models.Section) string { return s.ID }),
		TimeSlots:   lo.KeyBy(snap.TimeSlots, func(t models.TimeSlot) string { return t.ID }),
	}
}

// busySet tracks which time slots an instructor or room is already committed
// to. Keys are entity ids, members are time slot ids.
type busySet map[string]map[string]struct{}

func (b busySet) busy(entityID, slotID string) bool {
	slots, ok := b[entityID]
	if !ok {
		return false
	}
	_, taken := slots[slotID]
	return taken
}

func (b busySet) mark(entityID, slotID string) {
	if b[entityID] == nil {
		b[entityID] = make(map[string]struct{})
	}
	b[entityID][slotID] = struct{}{}
}
