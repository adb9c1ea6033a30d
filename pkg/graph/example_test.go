package graph_test

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tavalabs/tava/pkg/graph"
	"github.com/tavalabs/tava/pkg/ringgraph"
	"github.com/tavalabs/tava/pkg/roster"
)

func ExampleWriteGraph() {
	// A two-person network where "me" liked "alice"
	r := roster.New([]roster.Profile{
		{ID: "me", Liked: []string{"alice"}},
		{ID: "alice", DisplayName: "Alice"},
	})

	var buf bytes.Buffer
	if err := graph.WriteGraph(r, &buf); err != nil {
		fmt.Println("Error:", err)
		return
	}

	fmt.Println(buf.String())
	// Output:
	// {
	//   "nodes": [
	//     {
	//       "id": "me"
	//     },
	//     {
	//       "id": "alice",
	//       "label": "Alice"
	//     }
	//   ],
	//   "edges": [
	//     {
	//       "from": "me",
	//       "to": "alice"
	//     }
	//   ]
	// }
}

func ExampleReadGraph() {
	jsonData := `{
		"nodes": [{"id": "me"}, {"id": "alice"}, {"id": "bob"}],
		"edges": [
			{"from": "me", "to": "alice"},
			{"from": "alice", "to": "bob"}
		]
	}`

	r, err := graph.ReadGraph(bytes.NewReader([]byte(jsonData)))
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	fmt.Println("Members:", r.Len())
	fmt.Println("me liked:", r.LikedIDs("me"))
	// Output:
	// Members: 3
	// me liked: [alice]
}

func ExampleReadGraphFile() {
	path := filepath.Join(os.TempDir(), "example-likes.json")
	if err := graph.WriteGraphFile(roster.Demo(), path); err != nil {
		fmt.Println("Error:", err)
		return
	}
	defer os.Remove(path)

	r, err := graph.ReadGraphFile(path)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println("Imported", r.Len(), "members")
	// Output:
	// Imported 11 members
}

func ExampleFromLayout() {
	r := roster.Demo()
	l := ringgraph.Compute(roster.LocalUserID, r, ringgraph.Viewport{Width: 1000, Height: 1000}, ringgraph.DefaultParams())
	out := graph.FromLayout(l, nil, r)

	for _, n := range out.Nodes[:4] {
		fmt.Println(n.Ring, n.Label, n.Name)
	}
	fmt.Println("direct:", out.Stats.Direct, "extended:", out.Stats.Extended)
	// Output:
	// center Y You
	// first A Alice
	// first B Bob
	// first C Chloe
	// direct: 3 extended: 5
}
