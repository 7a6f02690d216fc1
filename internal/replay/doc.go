/*
Package replay stores a network as its replay log.

A network is persisted as the ordered list of structural commands that
rebuilds it (see network.Network.Commands). Two document formats are
supported and chosen by file extension:

	.hcl          one `command "<kind>"` block per command
	.yaml, .yml   a `commands:` sequence of mappings

An HCL log looks like this:

	command "add-joint" {
	  path = "."
	}
	command "add-bucket" {
	  path = ".0"
	}
	command "fill-bucket" {
	  path  = ".0.0"
	  items = ["a", "b"]
	}
	command "set-weight" {
	  path   = ".0"
	  weight = 3
	}

Items and filters are converted through cty, so any Go type gocty can imply a
cty type for (strings, numbers, bools and tagged structs) can be stored.
Order cursors and bucket IDs are not persisted; loading a log yields a network
whose cursors start fresh.
*/
package replay
