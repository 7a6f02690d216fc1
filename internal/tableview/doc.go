// Package tableview renders the result of network.Network.View as a terminal
// table. It is presentation only: nothing here feeds back into the network.
package tableview
