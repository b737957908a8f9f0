package scope

// Keyword sets for the ordered tier checks. All matching is done against
// the lowercased request text, so entries must be lowercase. Multi-word
// entries are matched as plain substrings.

var singleComponentKeywords = []string{
	"component",
	"button",
	"modal",
	"dropdown",
	"tooltip",
	"badge",
	"avatar",
	"spinner",
	"toggle",
	"slider",
	"accordion",
	"carousel",
}

var fullstackKeywords = []string{
	"fullstack",
	"full-stack",
	"full stack",
	"end-to-end app",
	"complete application",
}

var frontendKeywords = []string{
	"frontend",
	"front-end",
	"ui",
	"interface",
	"react",
	"client",
}

var apiKeywords = []string{
	"backend",
	"back-end",
	"api",
	"server",
	"endpoint",
	"service",
}

var databaseKeywords = []string{
	"database",
	"postgres",
	"mysql",
	"mongodb",
	"sqlite",
	"persistence",
	"storage",
	"schema",
}

var backendKeywords = []string{
	"api",
	"backend",
	"back-end",
	"rest",
	"graphql",
	"microservice",
	"endpoint",
	"webhook",
	"server",
}

var landingKeywords = []string{
	"landing page",
	"landing",
	"marketing",
	"hero section",
	"portfolio",
	"homepage",
}

var pageKeywords = []string{
	"page",
	"screen",
	"view",
}

var featureKeywords = []string{
	"dashboard",
	"feature",
	"crud",
	"admin panel",
	"workflow",
	"management",
	"system",
}
