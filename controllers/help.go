package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Help serves the Help & Feedback page.
func (h *Handlers) Help(c *gin.Context) {
	html := `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>LegalLite - Help &amp; Feedback</title>
    <link href="https://fonts.googleapis.com/css2?family=Inter:wght@400;600&display=swap" rel="stylesheet">
    <style>
        body {
            font-family: 'Inter', sans-serif;
            background: #f7f9ff;
            color: #0f172a;
            margin: 0;
            padding: 40px;
            display: flex;
            flex-direction: column;
            align-items: center;
        }
        .container {
            max-width: 760px;
            width: 100%;
            background: #ffffff;
            padding: 30px;
            border-radius: 12px;
            box-shadow: 0 12px 32px rgba(19, 52, 155, 0.08);
            border: 1px solid rgba(19, 52, 155, 0.12);
        }
        h1 {
            color: #13349b;
            font-weight: 600;
        }
        h2 {
            font-size: 1.1rem;
            margin-top: 24px;
        }
        code {
            background: #f1f5f9;
            padding: 2px 6px;
            border-radius: 6px;
        }
    </style>
</head>
<body>
    <div class="container">
        <h1>&#9878;&#65039; LegalLite &mdash; Help &amp; Feedback</h1>
        <p><strong>About LegalLite</strong>: this tool simplifies legal documents in plain English using AI.</p>
        <h2>Modes</h2>
        <ul>
            <li><strong>Demo Mode</strong>: uses sample summaries, no network calls.</li>
            <li><strong>Your Own API Key</strong>: your key, high-quality output.</li>
            <li><strong>Hosted Open Source</strong>: free, open-source summarization.</li>
        </ul>
        <h2>Workspace</h2>
        <ul>
            <li>Upload &amp; Simplify: PDFs only, up to 3MB.</li>
            <li>Risky Terms Detector: flags phrases like penalty, termination or binding arbitration.</li>
            <li>My History: every simplified document, oldest first.</li>
        </ul>
        <p>Suggestions or bugs? Drop a message at <code>support@legalease.com</code>.</p>
    </div>
</body>
</html>`
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}
