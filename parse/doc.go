// Package parse turns JSON text into an [ir.Node] tree.
//
// Numbers keep their source text so that coercion can range check values
// beyond the int64 and float64 domains.  With [ParseJWCC] the input may
// carry comments and trailing commas (JSON With Commas and Comments), the
// form documents are saved in.
package parse
