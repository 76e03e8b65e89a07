package clickhouse

import (
	"encoding/xml"
	"fmt"
	"net/netip"
	"regexp"
	"unicode/utf8"
)

const (
	// NativePort is the ClickHouse native protocol port used between shards.
	NativePort = 9000
	// LocalHost is the host a node uses for its own shard.
	LocalHost = "localhost"
	// DefaultCluster is the remote_servers cluster every node joins.
	DefaultCluster = "default"
	// DefaultUser is the built-in ClickHouse user the shared password is set on.
	DefaultUser = "default"
)

// xmlNameRegex is a conservative subset of XML element names, enough for
// cluster and user names.
var xmlNameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.-]*$`)

// ValidText reports whether s survives XML escaping unchanged: valid UTF-8
// made only of runes in the XML Char production. encoding/xml replaces
// anything else with U+FFFD.
func ValidText(s string) bool {
	if !utf8.ValidString(s) {
		return false
	}
	for _, r := range s {
		switch {
		case r == '\t', r == '\n', r == '\r':
		case r >= 0x20 && r <= 0xD7FF:
		case r >= 0xE000 && r <= 0xFFFD:
		case r >= 0x10000 && r <= 0x10FFFF:
		default:
			return false
		}
	}
	return true
}

// Credentials authenticate one node to another.
type Credentials struct {
	User     string
	Password string
}

// DefaultCredentials returns the default user with password.
func DefaultCredentials(password string) Credentials {
	return Credentials{User: DefaultUser, Password: password}
}

// ShardEntry is a single-replica shard.
type ShardEntry struct {
	Host     string
	Port     int
	User     string
	Password string
}

// TopologyView is one node's view of the cluster: its own shard first,
// as localhost, then one shard per peer in index order.
type TopologyView struct {
	OwnerIndex int
	Cluster    string
	Shards     []ShardEntry
}

// RenderTopology builds the view of the node at owner. Peers keep their
// index order; the owner's own address is replaced by the localhost entry.
func RenderTopology(owner int, addresses []netip.Addr, creds Credentials) (TopologyView, error) {
	if len(addresses) == 0 {
		return TopologyView{}, fmt.Errorf("cannot render topology without addresses")
	}
	if owner < 0 || owner >= len(addresses) {
		return TopologyView{}, fmt.Errorf("node index %d out of range [0, %d)", owner, len(addresses))
	}

	entry := func(host string) ShardEntry {
		return ShardEntry{Host: host, Port: NativePort, User: creds.User, Password: creds.Password}
	}

	shards := make([]ShardEntry, 0, len(addresses))
	shards = append(shards, entry(LocalHost))
	for i, addr := range addresses {
		if i == owner {
			continue
		}
		shards = append(shards, entry(addr.String()))
	}

	return TopologyView{OwnerIndex: owner, Cluster: DefaultCluster, Shards: shards}, nil
}

// PeerHosts returns the hosts of every shard except the owner's, in order.
func (v TopologyView) PeerHosts() []string {
	if len(v.Shards) <= 1 {
		return []string{}
	}
	hosts := make([]string, 0, len(v.Shards)-1)
	for _, s := range v.Shards[1:] {
		hosts = append(hosts, s.Host)
	}
	return hosts
}

type remoteServersDocument struct {
	XMLName       xml.Name         `xml:"clickhouse"`
	RemoteServers remoteServersXML `xml:"remote_servers"`
}

type remoteServersXML struct {
	Cluster clusterXML
}

type clusterXML struct {
	XMLName xml.Name
	Shards  []shardXML `xml:"shard"`
}

type shardXML struct {
	Replica replicaXML `xml:"replica"`
}

type replicaXML struct {
	Host     string `xml:"host"`
	Port     int    `xml:"port"`
	User     string `xml:"user"`
	Password string `xml:"password"`
}

// Bytes serializes the view as a config.d document. Identical views
// produce identical bytes.
func (v TopologyView) Bytes() ([]byte, error) {
	if !xmlNameRegex.MatchString(v.Cluster) {
		return nil, fmt.Errorf("invalid cluster name %q", v.Cluster)
	}
	for _, s := range v.Shards {
		if !ValidText(s.Password) {
			return nil, fmt.Errorf("password for shard %s contains characters XML cannot carry", s.Host)
		}
	}

	doc := remoteServersDocument{
		RemoteServers: remoteServersXML{
			Cluster: clusterXML{XMLName: xml.Name{Local: v.Cluster}},
		},
	}
	for _, s := range v.Shards {
		doc.RemoteServers.Cluster.Shards = append(doc.RemoteServers.Cluster.Shards, shardXML{
			Replica: replicaXML(s),
		})
	}
	return marshalDocument(doc)
}

type usersDocument struct {
	XMLName xml.Name `xml:"clickhouse"`
	Users   usersXML `xml:"users"`
}

type usersXML struct {
	User userXML
}

type userXML struct {
	XMLName  xml.Name
	Password string `xml:"password"`
}

// RenderUsers serializes the users.d document that sets the password of creds.User.
func RenderUsers(creds Credentials) ([]byte, error) {
	if !xmlNameRegex.MatchString(creds.User) {
		return nil, fmt.Errorf("invalid user name %q", creds.User)
	}
	if !ValidText(creds.Password) {
		return nil, fmt.Errorf("password for user %s contains characters XML cannot carry", creds.User)
	}
	return marshalDocument(usersDocument{
		Users: usersXML{
			User: userXML{XMLName: xml.Name{Local: creds.User}, Password: creds.Password},
		},
	})
}

func marshalDocument(doc any) ([]byte, error) {
	out, err := xml.MarshalIndent(doc, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal xml: %w", err)
	}
	return append(out, '\n'), nil
}
