// Package compute creates one server per planned node. Each server boots
// with its node's bootstrap script as user data and joins the private
// network at its planned address.
package compute
