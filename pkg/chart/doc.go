// Package chart reads organization charts from YAML or JSON documents.
//
// A chart document is a nested tree of employees:
//
//	id: 1
//	subordinates:
//	  - id: 2
//	  - id: 3
//	    subordinates:
//	      - id: 4
//
// Documents are decoded into a generic map first and then mapped onto the domain model
// with weak typing, so `id: "4"` is accepted as well. Unknown keys and duplicate ids are
// rejected.
package chart
