package naming

import "fmt"

func Network(prefix string) string {
	return fmt.Sprintf("%s-network", prefix)
}

func Firewall(prefix string) string {
	return fmt.Sprintf("%s-cluster-fw", prefix)
}

func SSHKey(prefix string) string {
	return fmt.Sprintf("%s-keypair", prefix)
}

// Node returns the server name of the node at index.
func Node(prefix string, index int) string {
	return fmt.Sprintf("%s-node-%d", prefix, index)
}

// ArtifactKey is the object key under which a node's bootstrap script is published.
func ArtifactKey(prefix, nodeName, file string) string {
	return fmt.Sprintf("%s/%s/%s", prefix, nodeName, file)
}
