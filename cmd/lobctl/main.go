// lobctl is a thin client for lobd's TCP textual protocol: it sends one
// record (§6.2) built from flags and prints whatever comes back.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"strings"
	"time"
)

func main() {
	serverAddr := flag.String("server", "127.0.0.1:9001", "address of the lobd server")
	action := flag.String("action", "add", "record to send: add, cancel, modify, print")
	id := flag.Int64("id", 0, "order id")
	shares := flag.Int64("shares", 0, "shares (add) / new shares (modify)")
	price := flag.Int64("price", 0, "price (add) / new price (modify)")
	side := flag.String("side", "B", "B or S (add only)")
	flag.Parse()

	conn, err := net.DialTimeout("tcp", *serverAddr, 5*time.Second)
	if err != nil {
		log.Fatalf("connect to %s: %v", *serverAddr, err)
	}
	defer conn.Close()

	record, err := buildRecord(*action, *id, *shares, *price, *side)
	if err != nil {
		log.Fatal(err)
	}

	if _, err := fmt.Fprintln(conn, record); err != nil {
		log.Fatalf("send record: %v", err)
	}
	fmt.Printf("-> %s\n", record)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	reader := bufio.NewReader(conn)
	for {
		reply, err := reader.ReadString('\n')
		fmt.Print(reply)
		if err != nil {
			break
		}
	}
	os.Stdout.Sync()
}

func buildRecord(action string, id, shares, price int64, side string) (string, error) {
	switch strings.ToLower(action) {
	case "add":
		return fmt.Sprintf("A %d %d %d %s", id, shares, price, side), nil
	case "cancel":
		return fmt.Sprintf("R %d", id), nil
	case "modify":
		return fmt.Sprintf("M %d %d %d", id, shares, price), nil
	case "print":
		return "P", nil
	default:
		return "", fmt.Errorf("unknown action %q", action)
	}
}
