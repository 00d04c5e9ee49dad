// Package schema describes the shape of a document: its fields, their
// declared types, defaults, descriptions and whether a mutation may set them.
//
// A schema is itself JSON (or YAML).  Each key is a field name mapped to a
// field descriptor:
//
//	{
//	  "port": { "%type": "uint16", "%default": 8080, "%settable": true,
//	            "%desc": "port to listen on" },
//	  "peers": { "%type": ["IP_Port"] },
//	  "log": { "%type": { "level": { "%type": "level", "%default": "info" } } },
//	  "%enum level": ["debug", "info", "error"],
//	  "%struct endpoint": { "addr": { "%type": "IP" } },
//	  "%struct tls_endpoint extends endpoint": { "cert": { "%type": "string" } }
//	}
//
// Descriptor keys are %type (required), %desc, %default, %sample,
// %settable (false when absent) and %check, an expression evaluated by
// package guard before a mutation of the field is committed.
//
// Built in types are string, bool, float, int8 to int64, uint8 to uint64 and
// the string formats IP, MAC, CIDR, IP_Range, IP_Port and image.  Arrays are
// written [elem]; struct types may be named with %struct or given inline.
// A %struct marked abstract may only be extended.
//
// Struct and array values may be null; string values may be null.
package schema
