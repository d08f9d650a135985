// Package io reads and writes the on-disk artifacts of an analysis.
//
// # Tree JSON
//
// [WriteJSON] and [ReadJSON] serialize a [tree.Tree] to a small JSON
// document that other tools can consume and that round-trips exactly:
//
//	{
//	  "taxa": ["A", "B", "C", "D"],
//	  "nodes": [
//	    {"id": 0, "taxa": ["D"]},
//	    {"id": 1, "taxa": ["C"]},
//	    {"id": 2, "taxa": ["A", "B"]}
//	  ],
//	  "edges": [
//	    {"id": 0, "u": 0, "v": 1, "labels": ["C1"]},
//	    {"id": 1, "u": 1, "v": 2, "labels": ["C2"]}
//	  ]
//	}
//
// Nodes and edges are listed in id order. Node taxa are names, not indices,
// so the file stays readable; [ReadJSON] maps them back through the "taxa"
// array and revalidates the result with [tree.New].
//
// # Text artifacts
//
// [WriteNewick], [WriteSplits] and [WriteWitness] produce the text files
// written next to every analysis: the anchored Newick string, the split
// table and the one-line outcome. Each output ends with a newline.
//
// [ExportJSON] and [ImportJSON] are file-path conveniences around the
// reader and writer functions.
package io
