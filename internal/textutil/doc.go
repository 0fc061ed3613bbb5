// Package textutil provides filename helpers shared by the CLI and pipeline.
package textutil
