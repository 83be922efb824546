package graph

import (
	"time"

	"github.com/veridex-ai/factdebate/internal/model"
)

// EvidenceNodeJSON is the externally testable shape of one evidence node in
// graph serialization.
type EvidenceNodeJSON struct {
	ID          string    `json:"id"`
	Content     string    `json:"content"`
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Source      string    `json:"source"`
	Credibility string    `json:"credibility"`
	RetrievedBy string    `json:"retrieved_by"`
	RoundNum    int       `json:"round_num"`
	SearchQuery string    `json:"search_query"`
	Timestamp   time.Time `json:"timestamp"`
	QualityScor float64   `json:"quality_score"`
}

// AttackEdgeJSON is the externally testable shape of one attack edge.
type AttackEdgeJSON struct {
	AttackerID string  `json:"attacker_id"`
	TargetID   string  `json:"target_id"`
	Strength   float64 `json:"strength"`
	Rationale  string  `json:"rationale"`
	RoundNum   int     `json:"round_num"`
}

// StatisticsJSON summarizes graph composition.
type StatisticsJSON struct {
	TotalNodes    int `json:"total_nodes"`
	TotalEdges    int `json:"total_edges"`
	RejectedEdges int `json:"rejected_edges"`
	ProNodes      int `json:"pro_nodes"`
	ConNodes      int `json:"con_nodes"`
}

// GraphJSON is the stable, externally testable serialization shape for
// one claim's argumentation graph.
type GraphJSON struct {
	Claim         string             `json:"claim"`
	EvidenceNodes []EvidenceNodeJSON `json:"evidence_nodes"`
	AttackEdges   []AttackEdgeJSON   `json:"attack_edges"`
	Statistics    StatisticsJSON     `json:"statistics"`
}

// Serialize produces the stable JSON shape for the current graph state.
func (g *Graph) Serialize() GraphJSON {
	snap := g.Snapshot()

	out := GraphJSON{
		Claim:         snap.Claim,
		EvidenceNodes: make([]EvidenceNodeJSON, len(snap.Nodes)),
		AttackEdges:   make([]AttackEdgeJSON, len(snap.Edges)),
	}
	var proCount, conCount int
	for i, n := range snap.Nodes {
		out.EvidenceNodes[i] = EvidenceNodeJSON{
			ID:          n.ID,
			Content:     n.Content,
			URL:         n.URL,
			Title:       n.Source,
			Source:      n.Source,
			Credibility: string(n.Credibility),
			RetrievedBy: string(n.RetrievedBy),
			RoundNum:    n.Round,
			SearchQuery: n.Query,
			Timestamp:   n.Timestamp,
			QualityScor: n.Quality,
		}
		if n.RetrievedBy == model.AgentPro {
			proCount++
		} else if n.RetrievedBy == model.AgentCon {
			conCount++
		}
	}
	for i, e := range snap.Edges {
		out.AttackEdges[i] = AttackEdgeJSON{
			AttackerID: e.Attacker,
			TargetID:   e.Target,
			Strength:   e.Strength,
			Rationale:  e.Rationale,
			RoundNum:   e.Round,
		}
	}
	out.Statistics = StatisticsJSON{
		TotalNodes:    len(snap.Nodes),
		TotalEdges:    len(snap.Edges),
		RejectedEdges: g.RejectedEdgeCount(),
		ProNodes:      proCount,
		ConNodes:      conCount,
	}
	return out
}
