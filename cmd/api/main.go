package main

import (
	"fmt"
	"os"

	"github.com/PauloHFS/skystore/internal/cmd"
	"github.com/PauloHFS/skystore/web/static/assets"
	_ "github.com/mattn/go-sqlite3"
)

func main() {
	if len(os.Args) < 2 {
		cmd.RunServer(assets.FS)
		return
	}

	switch os.Args[1] {
	case "server":
		cmd.RunServer(assets.FS)
	case "seed":
		cmd.RunSeed()
	case "migrate":
		cmd.RunMigrate()
	case "create-superuser":
		cmd.RunCreateSuperuser()
	case "create-manager":
		cmd.RunCreateManager()
	case "help":
		showHelp()
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		showHelp()
		os.Exit(1)
	}
}

func showHelp() {
	fmt.Println("skystore - Single Binary Console")
	fmt.Println("Usage: ./skystore [command] [args]")
	fmt.Println("\nAvailable commands:")
	fmt.Println("  server            Start the web server (default)")
	fmt.Println("  migrate           Run database migrations")
	fmt.Println("  seed              Run migrations and seed categories, grants and the admin")
	fmt.Println("  create-superuser  Create an active superuser (args: <email> <password>)")
	fmt.Println("  create-manager    Create an active manager (args: <email> <password>)")
	fmt.Println("  help              Show this help message")
}
