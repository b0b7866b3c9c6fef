// One-off: go run scripts/genhash.go [password] [cost]
// Prints a bcrypt digest in the form stored in the users table or sheet.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/colinruark1/ocean-cleaning/internal/auth"
)

func main() {
	password := "admin123"
	if len(os.Args) > 1 {
		password = os.Args[1]
	}
	cost := 10
	if len(os.Args) > 2 {
		n, err := strconv.Atoi(os.Args[2])
		if err != nil {
			fmt.Fprintf(os.Stderr, "cost: %v\n", err)
			os.Exit(2)
		}
		cost = n
	}
	h, err := auth.NewBcryptHasher(cost).Hash(password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "hash: %v\n", err)
		os.Exit(1)
	}
	fmt.Print(h)
}
