/*
Package script drives a string network from a line-oriented script.

Scripts are the quickest way to reproduce a scheduling scenario: each line is
one command, tokenised like a shell (quotes group, backslashes escape), and
the interesting results are collected into a Log.

	# two buckets, the second twice as likely
	modify add-bucket .
	modify add-bucket .
	modify fill-bucket .0 a1 a2
	modify fill-bucket .1 b1 b2
	modify set-weight .1 2
	peek --apply 6
	peek-assert a1 b1 b2

	!!expect_error
	modify add-joint .7

Commands:

	modify <command> ...          apply a structural command (see network.Command)
	peek [--apply] [--show-bucket-ids] [--show-effort] N
	peek-assert [--apply] [--show-effort] ITEM...
	topology [weights]            item counts (or weights) as nested brackets
	get-filters PATH              filter sets from the spigot down to PATH
	buckets-needing-fill
	seed N                        restart the random source from seed N

Blank lines and lines starting with '#' are skipped. A line reading
!!expect_error makes the next command's failure part of the log instead of
aborting the script; the script fails if that command succeeds.
*/
package script
