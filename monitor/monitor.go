package monitor

import (
	"os"

	"fund-admin-gateway/config"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// RegisterMonitorPage serves the operator status page. It polls the health
// endpoint and tails the gateway log through /logs.
func RegisterMonitorPage(router *gin.Engine) {
	router.GET("/monitor", func(c *gin.Context) {
		c.Data(200, "text/html; charset=utf-8", []byte(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1.0" />
  <title>Gateway Monitor</title>
  <style>
    * { margin: 0; padding: 0; box-sizing: border-box; }
    body {
      background: linear-gradient(135deg, #0f0f0f 0%, #1a1a2e 100%);
      color: #e0e0e0;
      font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
      min-height: 100vh;
      padding: 20px;
    }
    .container { max-width: 1100px; margin: 0 auto; }
    h1 {
      font-size: 2rem;
      font-weight: 700;
      color: #a5b4fc;
      margin-bottom: 1.5rem;
    }
    .status-card {
      background: rgba(255, 255, 255, 0.05);
      border: 1px solid rgba(255, 255, 255, 0.1);
      border-radius: 12px;
      padding: 1.25rem;
      margin-bottom: 1.5rem;
    }
    #status, #backend { font-size: 1.1rem; font-weight: 600; }
    #logs {
      background: rgba(0, 0, 0, 0.3);
      padding: 1.25rem;
      border-radius: 12px;
      max-height: 500px;
      overflow-y: auto;
      white-space: pre-wrap;
      font-family: 'Monaco', 'Consolas', monospace;
      font-size: 0.85rem;
      line-height: 1.5;
      color: #cbd5e1;
    }
    button {
      padding: 0.6rem 1.2rem;
      background: #667eea;
      color: #fff;
      border: none;
      border-radius: 8px;
      cursor: pointer;
      font-weight: 600;
      margin-bottom: 1rem;
    }
  </style>
</head>
<body>
  <div class="container">
    <h1>Fund Admin Gateway</h1>
    <div class="status-card">
      <div id="status">Gateway: checking...</div>
      <div id="backend">Backend: checking...</div>
    </div>
    <button onclick="toggleLive()" id="toggleBtn">Pause Live Logs</button>
    <pre id="logs">Loading logs...</pre>
  </div>

  <script>
    let liveLogs = true;
    let token = localStorage.getItem('logsToken') || '';

    function fetchStatus() {
      fetch('/api/v1/health')
        .then(res => res.json())
        .then(data => {
          document.getElementById('status').textContent = 'Gateway: ' + (data.success ? 'online' : 'offline');
          document.getElementById('backend').textContent = 'Backend: ' + (data.backend || 'unknown');
        })
        .catch(() => {
          document.getElementById('status').textContent = 'Gateway: offline';
          document.getElementById('backend').textContent = 'Backend: unknown';
        });
    }

    function fetchLogs() {
      if (!liveLogs) return;
      if (!token) {
        token = prompt('Logs access token') || '';
        localStorage.setItem('logsToken', token);
      }
      fetch('/logs?token=' + encodeURIComponent(token))
        .then(res => res.text())
        .then(data => {
          const logs = document.getElementById('logs');
          logs.textContent = data;
          logs.scrollTop = logs.scrollHeight;
        });
    }

    function toggleLive() {
      liveLogs = !liveLogs;
      document.getElementById('toggleBtn').textContent = liveLogs ? 'Pause Live Logs' : 'Resume Live Logs';
    }

    fetchStatus();
    fetchLogs();
    setInterval(fetchStatus, 5000);
    setInterval(fetchLogs, 5000);
  </script>
</body>
</html>`))
	})
}

// RegisterLogsRoute exposes the gateway log tail. The token is compared
// against the bcrypt hash in LOGS_TOKEN_HASH; an empty hash disables the
// route.
func RegisterLogsRoute(router *gin.Engine) {
	router.GET("/logs", func(c *gin.Context) {
		hash := config.LogsTokenHash()
		if hash == "" {
			c.JSON(404, gin.H{"error": "Not found"})
			return
		}
		if bcrypt.CompareHashAndPassword([]byte(hash), []byte(c.Query("token"))) != nil {
			c.JSON(401, gin.H{"error": "Unauthorized"})
			return
		}

		logData, err := os.ReadFile(config.LogFilePath())
		if err != nil {
			c.JSON(500, gin.H{"error": "Unable to read log"})
			return
		}
		c.Data(200, "text/plain; charset=utf-8", logData)
	})
}
