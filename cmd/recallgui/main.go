// Command recallgui wraps the studio SPA in a native window. It launches
// the recallgo server as a child process, waits for it to come up, then
// points a webview at it.
package main

import (
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	webview "github.com/webview/webview_go"
)

const serverAddr = "localhost:1931"

func main() {
	// Webview requires the main thread.
	runtime.LockOSThread()

	// Run from the executable directory so the server finds configs/ and data/.
	exe, err := os.Executable()
	if err != nil {
		panic(err)
	}
	if err := os.Chdir(filepath.Dir(exe)); err != nil {
		panic(err)
	}

	server, err := startServer(filepath.Dir(exe))
	if err != nil {
		panic(err)
	}
	defer stopServer(server)

	if err := waitForHealth("http://"+serverAddr+"/health", 30*time.Second); err != nil {
		panic(err)
	}

	w := webview.New(false)
	defer w.Destroy()

	// The SPA has its own context menus.
	w.Init(`
		window.addEventListener('contextmenu', function(e) {
			e.preventDefault();
		}, true);
	`)

	w.SetTitle("Recall Studio")
	w.SetSize(1280, 840, webview.HintNone)
	w.Navigate("http://" + serverAddr)
	w.Run()
}

func startServer(dir string) (*exec.Cmd, error) {
	name := "recallgo"
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	cmd := exec.Command(filepath.Join(dir, name))
	cmd.Dir = dir
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting server: %w", err)
	}
	return cmd, nil
}

func stopServer(cmd *exec.Cmd) {
	// Graceful first; the server flushes logs on shutdown.
	resp, err := http.Post("http://"+serverAddr+"/api/shutdown", "", nil)
	if err == nil {
		resp.Body.Close()
		done := make(chan struct{})
		go func() {
			_ = cmd.Wait()
			close(done)
		}()
		select {
		case <-done:
			return
		case <-time.After(5 * time.Second):
		}
	}
	_ = cmd.Process.Kill()
}

func waitForHealth(url string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		resp, err := http.Get(url)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(200 * time.Millisecond)
	}
	return fmt.Errorf("server did not become healthy within %s", timeout)
}
