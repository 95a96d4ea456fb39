package kvgo_test

import (
	"fmt"
	"log"
	"os"

	"github.com/hupe1980/kvgo"
)

func Example() {
	dir, err := os.MkdirTemp("", "kvgo-example")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)

	// One logical column next to the reserved default column.
	db, err := kvgo.Open(dir, kvgo.WithColumns(1))
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	// All operations of a batch commit atomically.
	b := new(kvgo.Batch)
	b.Put(kvgo.DefaultColumn, []byte("height"), []byte("42"))
	b.Put(0, []byte("block:42"), []byte("payload"))
	if err := db.Write(b); err != nil {
		log.Fatal(err)
	}

	v, err := db.Get(0, []byte("block:42"))
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(string(v))

	for e, err := range db.ScanPrefix(0, []byte("block:")) {
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(string(e.Key))
	}

	// Output:
	// payload
	// block:42
}

func ExampleDB_GetByPrefix() {
	dir, err := os.MkdirTemp("", "kvgo-example")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)

	db, err := kvgo.Open(dir)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	b := new(kvgo.Batch)
	b.Put(kvgo.DefaultColumn, []byte("ab"), []byte("1"))
	b.Put(kvgo.DefaultColumn, []byte("abc"), []byte("2"))
	if err := db.Write(b); err != nil {
		log.Fatal(err)
	}

	// First match in key order.
	v, err := db.GetByPrefix(kvgo.DefaultColumn, []byte("ab"))
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(string(v))

	// Output:
	// 1
}
