// Package client implements a thin client over the server package's
// wire protocol: one command per connection.
package client

import (
	"fmt"
	"net"

	"github.com/bsurber/vfsimage/proto"
)

// RunCommand dials addr, sends line as a single request, and returns
// the server's reply text. err is non-nil only for a transport
// failure; a command failure reported by the server is returned as
// cmdErr.
func RunCommand(addr, line string) (text string, cmdErr error, err error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return "", nil, err
	}
	defer conn.Close()

	if err := proto.WriteRequest(conn, line); err != nil {
		return "", nil, err
	}

	text, isError, err := proto.ReadReply(conn)
	if err != nil {
		return "", nil, err
	}
	if isError {
		return "", fmt.Errorf("%s", text), nil
	}
	return text, nil, nil
}
