// Package hierarchy models a Todoist account as a forest of projects, sections
// and tasks.
//
// A Snapshot holds the flat records returned by the API. Build links them into a
// Forest whose roots are top-level projects. Sub-projects hang under their parent
// project, sections under their project, and tasks under their parent task, their
// section, or their project, in that order of preference.
//
// All three kinds share the Node type, tagged by Kind, so the selection algorithms
// walk the tree without caring what a branch is made of. Children are ordered by
// kind group (tasks, sections, sub-projects) and then by the API-reported order.
//
// A forest is rebuilt from scratch every poll cycle and is never mutated after
// Build returns.
package hierarchy
