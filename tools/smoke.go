//go:build ignore

// Smoke exercises a running catman server end to end: it creates a few
// categories, renames one, deletes one, and checks the list after every
// write. Useful when poking at a server on real hardware.
//
// Usage: go run tools/smoke.go http://192.168.1.50:8470 [username password]
package main

import (
	"fmt"
	"os"

	"github.com/jmcrae/catman/internal/catalog"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: smoke <base-url> [username password]")
		fmt.Println("Example: smoke http://192.168.1.50:8470 catman catman")
		os.Exit(1)
	}

	client := catalog.NewClientWithURL(os.Args[1])
	if len(os.Args) >= 4 {
		client.SetAuth(os.Args[2], os.Args[3])
	}

	if err := client.Ping(); err != nil {
		fail("ping", err)
	}
	fmt.Println("ping: ok")

	before, err := client.ListCategories()
	if err != nil {
		fail("initial list", err)
	}
	fmt.Printf("initial list: %d categories\n", len(before))

	var created []catalog.Identity
	for _, d := range []string{"smoke-fruit", "smoke-vegetables", "smoke-dairy"} {
		identity, err := client.CreateCategory(d)
		if err != nil {
			fail("create "+d, err)
		}
		fmt.Printf("created %q -> id=%d key=%s\n", d, identity.ID, identity.Key)
		created = append(created, identity)
	}

	expectCount(client, len(before)+3, "after creates")

	if _, err := client.UpdateCategory(created[0].Key, "smoke-fruits"); err != nil {
		fail("update", err)
	}
	fmt.Printf("updated %s\n", created[0].Key)

	expectDescription(client, created[0].Key, "smoke-fruits")

	// Clean up everything we created
	for _, identity := range created {
		if _, err := client.DeleteCategory(identity.Key); err != nil {
			fail("delete "+identity.Key, err)
		}
		fmt.Printf("deleted %s\n", identity.Key)
	}

	expectCount(client, len(before), "after cleanup")

	fmt.Println("smoke: all checks passed")
}

func expectCount(client *catalog.Client, want int, stage string) {
	list, err := client.ListCategories()
	if err != nil {
		fail("list "+stage, err)
	}
	if len(list) != want {
		fmt.Printf("FAIL %s: %d categories, want %d\n", stage, len(list), want)
		os.Exit(1)
	}
	fmt.Printf("list %s: %d categories (ok)\n", stage, len(list))
}

func expectDescription(client *catalog.Client, key, want string) {
	list, err := client.ListCategories()
	if err != nil {
		fail("list", err)
	}
	for _, cat := range list {
		if cat.Key == key {
			if cat.Description != want {
				fmt.Printf("FAIL: %s has description %q, want %q\n", key, cat.Description, want)
				os.Exit(1)
			}
			return
		}
	}
	fmt.Printf("FAIL: %s not found in list\n", key)
	os.Exit(1)
}

func fail(stage string, err error) {
	fmt.Printf("FAIL %s: %v\n", stage, err)
	os.Exit(1)
}
