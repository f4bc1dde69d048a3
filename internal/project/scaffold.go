package project

import (
	"path"
	"strings"
)

// Scaffold templates for a new web project. {{name}} is replaced with the
// sanitized project name.
var scaffoldFiles = map[string]string{
	"index.html": `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{name}}</title>
  <link rel="stylesheet" href="css/style.css">
</head>
<body>
  <h1>{{name}}</h1>
  <p>Edit this page to get started.</p>
  <script src="js/app.js"></script>
</body>
</html>
`,
	"css/style.css": `body {
  font-family: system-ui, sans-serif;
  margin: 2rem auto;
  max-width: 42rem;
  padding: 0 1rem;
}
`,
	"js/app.js": `console.log('{{name}} loaded');
`,
	"README.md": `# {{name}}

Created with WorkDeck.
`,
}

// writeScaffold writes the project template under the (already created)
// project folder. Each file goes through the workspace write path, so parent
// directories are created as needed.
func (s *Service) writeScaffold(name string) error {
	for rel, tmpl := range scaffoldFiles {
		content := strings.ReplaceAll(tmpl, "{{name}}", name)
		if _, err := s.ws.WriteFile(path.Join(name, rel), content); err != nil {
			return err
		}
	}
	return nil
}
