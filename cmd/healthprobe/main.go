// healthprobe is a tiny liveness checker for councild, usable from cron
// or a container HEALTHCHECK. It exits 0 when /api/health answers "ok"
// within the timeout and 1 otherwise.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/valyala/fasthttp"
)

func main() {
	target := flag.String("url", "http://127.0.0.1:8080/api/health", "health endpoint to probe")
	timeout := flag.Duration("timeout", 2*time.Second, "probe timeout")
	flag.Parse()

	c := &fasthttp.Client{
		ReadTimeout:  *timeout,
		WriteTimeout: *timeout,
	}
	status, body, err := c.GetTimeout(nil, *target, *timeout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "probe failed: %v\n", err)
		os.Exit(1)
	}
	if status != fasthttp.StatusOK || string(body) != "ok" {
		fmt.Fprintf(os.Stderr, "unhealthy: status=%d body=%q\n", status, body)
		os.Exit(1)
	}
	fmt.Println("ok")
}
