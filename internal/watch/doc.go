// Package watch provides file-watching capabilities for res2csv's
// live re-export workflow. It monitors the input JSON document for
// changes, debounces rapid events, and triggers the export pipeline
// automatically, reporting column changes between runs.
package watch
