// Package sshkey loads and generates SSH keys for server access.
//
// Public keys are parsed in OpenSSH authorized_keys format and carry the
// MD5 fingerprint Hetzner Cloud uses to identify registered keys, so an
// already uploaded key can be reused instead of registered twice.
package sshkey
