// SPDX-License-Identifier: MPL-2.0

// Package cueutil validates CUE documents against an embedded schema and
// decodes them into Go values. Errors name the file and the CUE path of the
// offending field, e.g. "config.cue: instances[0].roots[1].path: ...".
//
//	var classMap = cueutil.Schema{Source: schemaBytes, Definition: "#ClassMap"}
//
//	res, err := cueutil.DecodeFile[classMapFile](fsys, classMap, path)
package cueutil
