// Package testing runs declarative bot scenarios.
//
// A scenario is a YAML file describing an account as a tree of projects,
// sections and tasks, the markers in effect and a list of steps. Each step
// changes the account the way a user would (completing, renaming or
// relabelling tasks), runs one poll cycle against an in-memory collaborator
// and checks the labels of the listed tasks afterwards:
//
//	name: serial-next-action
//	markers:
//	  - {scheme: serial, label: next_action, suffix: -n}
//	account:
//	  projects:
//	    - id: work
//	      name: Work -n
//	      tasks:
//	        - {id: t1, content: Draft}
//	        - {id: t2, content: Review}
//	steps:
//	  - name: first task is next
//	    expect: {t1: [next_action], t2: []}
//	  - name: completing moves the label
//	    complete: [t1]
//	    expect: {t2: [next_action]}
//
// After every step a second cycle is run; a step whose labels keep changing
// is reported as unstable.
//
// Sub-packages mock and fixtures hold the in-memory collaborator, a mock
// Sync API server, a manual clock and snapshot builders used by unit tests
// across the module.
package testing
