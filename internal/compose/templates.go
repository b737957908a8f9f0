package compose

import "codeforge/internal/types"

// scopeTemplate is the versioned template data for one scope tier. File
// entries use {entity} as the placeholder for the detected entity name.
type scopeTemplate struct {
	Version string
	Files   []string
	Rules   []string
}

var scopeTemplates = map[types.ScopeType]scopeTemplate{
	types.ScopeSingleComponent: {
		Version: "v2",
		Files: []string{
			"src/components/{entity}.tsx",
			"src/components/{entity}.module.css",
			"src/components/{entity}.test.tsx",
		},
		Rules: []string{
			"One component per file, named after the entity.",
			"Props interface declared next to the component.",
			"Include a minimal usage example in the test file.",
		},
	},
	types.ScopeFeature: {
		Version: "v2",
		Files: []string{
			"src/features/{entity}/{entity}View.tsx",
			"src/features/{entity}/{entity}List.tsx",
			"src/features/{entity}/use{entity}.ts",
			"src/features/{entity}/api.ts",
			"src/features/{entity}/types.ts",
		},
		Rules: []string{
			"State lives in a dedicated hook, not in the view.",
			"API access goes through the api module only.",
		},
	},
	types.ScopePage: {
		Version: "v1",
		Files: []string{
			"src/pages/{entity}Page.tsx",
			"src/pages/{entity}Page.module.css",
			"src/components/{entity}Header.tsx",
			"src/components/{entity}Content.tsx",
		},
		Rules: []string{
			"The page composes components; it holds no business logic.",
		},
	},
	types.ScopeBackend: {
		Version: "v2",
		Files: []string{
			"server/server.js",
			"server/routes/{entity}Routes.js",
			"server/controllers/{entity}Controller.js",
			"server/models/{entity}.js",
			"server/middleware/errorHandler.js",
		},
		Rules: []string{
			"Routes delegate to controllers; controllers delegate to models.",
			"Every handler returns JSON and sets an explicit status code.",
		},
	},
	types.ScopeFullstack: {
		Version: "v3",
		Files: []string{
			"src/App.tsx",
			"src/pages/{entity}Page.tsx",
			"src/services/api.ts",
			"server/server.js",
			"server/routes/{entity}Routes.js",
			"server/controllers/{entity}Controller.js",
			"server/models/{entity}.js",
			"server/db/database.js",
		},
		Rules: []string{
			"Frontend and backend agree on one shared JSON shape per resource.",
			"Database access is isolated in the models layer.",
		},
	},
	types.ScopeLandingPage: {
		Version: "v1",
		Files: []string{
			"src/pages/LandingPage.tsx",
			"src/components/HeroSection.tsx",
			"src/components/FeatureGrid.tsx",
			"src/components/CallToAction.tsx",
			"src/components/Footer.tsx",
		},
		Rules: []string{
			"Sections are self-contained components stacked in order.",
			"No router; a landing page is a single route.",
		},
	},
}

// coreRules apply to every scope. They are restated verbatim in each
// instruction because the provider is an unreliable oracle.
var coreRules = []string{
	"Every exported unit must be fully implemented. No placeholders, no TODOs, no ellipses.",
	"Use only plain React and the browser runtime. Do not import UI kits or CSS-in-JS libraries.",
	"All code must be self-consistent: every referenced symbol is defined in one of the emitted files.",
	"Each file must compile on its own under a strict TypeScript configuration.",
}

// forbiddenDependencies are rejected at generation time and stripped at
// rewrite time if the provider emits them anyway.
var forbiddenDependencies = []string{
	"styled-components",
	"@mui/material",
	"@material-ui/core",
	"antd",
	"framer-motion",
	"react-query",
	"redux-saga",
}

// outputContract tells the provider how to delimit multi-file output. The
// marker matches the extractor's highest-priority strategy.
const outputContract = `For each file, emit a marker line followed by the file body:
component:<Name>:<lang>:<relative/path>
<file body>
Do not wrap file bodies in markdown fences.`
