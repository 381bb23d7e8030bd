package collection_test

import (
	"fmt"

	"github.com/arthur-debert/nanodoc/nanodoc/blob"
	"github.com/arthur-debert/nanodoc/nanodoc/collection"
	"github.com/arthur-debert/nanodoc/nanodoc/types"
)

func Example() {
	s, err := collection.New(blob.NewMemoryStore(), "tasks.json", collection.WithAutocreate())
	if err != nil {
		panic(err)
	}

	for _, task := range []types.Body{
		{"id": "t1", "title": "Design API", "status": "done"},
		{"id": "t2", "title": "Write tests", "status": "pending"},
		{"id": "t3", "title": "Write docs", "status": "pending"},
	} {
		if _, err := s.CreateDocument(task); err != nil {
			panic(err)
		}
	}

	pending, err := s.Query(map[string]interface{}{"status": "pending"})
	if err != nil {
		panic(err)
	}
	for _, task := range pending {
		fmt.Println(task["id"], task["title"])
	}

	// Output:
	// t2 Write tests
	// t3 Write docs
}

func ExampleStore_Switch() {
	blobs := blob.NewMemoryStore()
	s, _ := collection.New(blobs, "drafts.json", collection.WithAutocreate())
	_, _ = s.CreateDocument(types.Body{"id": "d1"})

	s.Switch("published.json")
	exists, _ := s.Exists()
	fmt.Println("published exists:", exists)

	s.Switch("drafts.json")
	found, _ := s.FindDocument("d1")
	fmt.Println("draft found:", found)

	// Output:
	// published exists: false
	// draft found: true
}
