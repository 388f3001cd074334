package conn

import "fmt"

type partyKind uint8

const (
	kindUser partyKind = iota
	kindAgent
)

// PartyKey identifies one connected party in the registry. End users are
// keyed by (clientID, userID); agents by agentID alone. A single comparable
// value type avoids the key collisions that ad-hoc string concatenation
// invites.
type PartyKey struct {
	kind     partyKind
	clientID string
	partyID  string
}

func UserKey(clientID, userID string) PartyKey {
	return PartyKey{kind: kindUser, clientID: clientID, partyID: userID}
}

func AgentKey(agentID string) PartyKey {
	return PartyKey{kind: kindAgent, partyID: agentID}
}

func (k PartyKey) String() string {
	if k.kind == kindAgent {
		return "agent:" + k.partyID
	}
	return fmt.Sprintf("user:%s/%s", k.clientID, k.partyID)
}
