// Package app contains the core application logic. It defines the App struct,
// its configuration, and the operations the command line exposes (running a
// script, peeking, viewing and dumping the replay log), decoupled from any
// specific entrypoint.
//
// The network itself lives in a state file holding its replay log. Every
// operation loads the state file (an absent file is an empty network),
// works on the network in memory and, when it changed the network, saves it
// back. Order cursors are not part of the replay log, so they start fresh on
// every invocation; scenarios that depend on cursor progress belong in a
// single script.
package app
