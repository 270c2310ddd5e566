package lobbytest

// DemoPassword opens every room NewDemoServer seeds.
const DemoPassword = "demo"

var demoRooms = []string{
	"Sicilian Defence",
	"Queen's Gambit",
	"Blitz 3+2",
	"Endgame practice",
}

// NewDemoServer starts a server holding a few sample rooms. The first one
// seeded has already ended, so it is not listed.
func NewDemoServer() *Server {
	srv := NewServer()
	srv.End(srv.Seed("Finished match", DemoPassword))
	for _, name := range demoRooms {
		srv.Seed(name, DemoPassword)
	}
	return srv
}
