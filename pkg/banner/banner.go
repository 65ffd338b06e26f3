package banner

import "fmt"

const banner = `
 ██████╗ ██████╗ ██╗   ██╗███╗   ██╗ ██████╗██╗██╗     ██████╗
██╔════╝██╔═══██╗██║   ██║████╗  ██║██╔════╝██║██║     ██╔══██╗
██║     ██║   ██║██║   ██║██╔██╗ ██║██║     ██║██║     ██║  ██║
██║     ██║   ██║██║   ██║██║╚██╗██║██║     ██║██║     ██║  ██║
╚██████╗╚██████╔╝╚██████╔╝██║ ╚████║╚██████╗██║███████╗██████╔╝
 ╚═════╝ ╚═════╝  ╚═════╝ ╚═╝  ╚═══╝ ╚═════╝╚═╝╚══════╝╚═════╝
`

// Print writes the startup banner with the effective runtime settings.
func Print(addr, dbPath, sources, version string) {
	fmt.Print(banner)
	fmt.Println("== Config =====================================================")
	fmt.Printf("Listen:   %s\n", addr)
	fmt.Printf("DB Path:  %s\n", dbPath)
	if version != "" {
		fmt.Printf("Version:  %s\n", version)
	}
	if sources != "" {
		fmt.Printf("Config sources: %s\n", sources)
	}
	fmt.Println("\n== Endpoints ==================================================")
	fmt.Println("POST /api/auth          - Claim a (room, country) seat, get a token")
	fmt.Println("GET  /api/conversations - List your conversations (?room_id=)")
	fmt.Println("POST /api/conversations - Create a 2-3 party conversation")
	fmt.Println("GET  /api/messages      - Read messages (?conversation_id=&since=)")
	fmt.Println("POST /api/messages      - Send a message")
	fmt.Println("GET  /api/health        - Liveness probe")
	fmt.Println("\n== Examples ===================================================")
	fmt.Printf("curl -X POST 'http://localhost%s/api/auth' -d '{\"room_id\":\"R1\",\"country\":\"austria\"}'\n", addr)
	fmt.Printf("curl -H 'Authorization: Bearer <token>' 'http://localhost%s/api/conversations?room_id=R1'\n", addr)
}
