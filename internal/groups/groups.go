// Package groups buckets students by lab-group number for the group report.
package groups

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"labreg/internal/record"
)

// Group is one lab group with its members in surname order.
type Group struct {
	Number  int64
	Members []record.Student
}

// ByGroup buckets students into groups ordered by group number ascending.
// Members are ordered by collated surname (Italian rules, so accented
// surnames sort naturally), then by name, then matricola as tiebreaker.
// Students with group 0 (unassigned) are excluded.
func ByGroup(students []record.Student) []Group {
	buckets := make(map[int64][]record.Student)
	for _, s := range students {
		if s.Group == 0 {
			continue
		}
		buckets[s.Group] = append(buckets[s.Group], s)
	}

	numbers := make([]int64, 0, len(buckets))
	for n := range buckets {
		numbers = append(numbers, n)
	}
	sort.Slice(numbers, func(i, j int) bool { return numbers[i] < numbers[j] })

	coll := collate.New(language.Italian)
	groups := make([]Group, 0, len(numbers))
	for _, n := range numbers {
		members := buckets[n]
		sort.SliceStable(members, func(i, j int) bool {
			if c := coll.CompareString(members[i].Surname, members[j].Surname); c != 0 {
				return c < 0
			}
			if c := coll.CompareString(members[i].Name, members[j].Name); c != 0 {
				return c < 0
			}
			return members[i].Matricola < members[j].Matricola
		})
		groups = append(groups, Group{Number: n, Members: members})
	}
	return groups
}
