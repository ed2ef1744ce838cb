// Command keygen prints a random access token secret suitable for
// ACCESS_TOKEN_SECRET.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/dmitrijs2005/notekeeper/internal/common"
)

func main() {
	size := flag.Int("n", 32, "secret size in bytes")
	flag.Parse()

	if *size < 16 {
		log.Fatalf("secret size must be at least 16 bytes, got %d", *size)
	}

	secret, err := common.MakeRandHexString(*size)
	if err != nil {
		log.Fatalf("%v", err)
	}
	fmt.Println(secret)
}
