// Package model defines the configuration entities of distbuild and the
// containment rules between them.
//
// Reference entities (Platform, Task, VariantCategory) are immutable
// snapshots loaded once per call and collected in a ReferenceData value.
// A Project owns a configuration tree:
//
//	Project
//	  PlatformNode (platform, provider)
//	    TaskNode (task)
//	      VariantNode (category -> value)
//	        PlatformNode ... (nested test configuration, build projects only)
//
// No two siblings share (platform, provider), a task, or a variant
// combination. FindOrCreate is the single way nodes are added by the
// generator and the reconstructor, and Validate rejects trees that break the
// rule before any job is generated.
package model
