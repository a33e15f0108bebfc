package frontend

import (
	"context"
	"log"
	"net/url"

	"github.com/maxence-charriere/go-app/v9/pkg/app"
	"github.com/simulot/mediagrab/pkg/controller"
	"github.com/simulot/mediagrab/pkg/models"
	"github.com/simulot/mediagrab/pkg/myhttp"
	"github.com/simulot/mediagrab/pkg/store"
)

// AppState hold the state of the application
type AppState struct {
	// Application settings, given by the server through the environment
	Settings models.Settings

	// Status items of the session, shared by all forms
	Statuses *store.StatusList

	// Controller handles form submissions
	Controller *controller.Controller

	StateContext context.Context
}

var MyAppState *AppState

// InitializeWebApp initialize the client side either for the browser and the serverside rendering
func InitializeWebApp(ctx context.Context) *AppState {
	settings := models.SettingsFromEnv(app.Getenv)
	if app.IsClient {
		u := app.Window().URL()
		settings.YouTubeEndpoint = resolveEndpoint(u, settings.YouTubeEndpoint)
		settings.PinterestEndpoint = resolveEndpoint(u, settings.PinterestEndpoint)
		log.Printf("[CLIENT] Endpoints: %s, %s", settings.YouTubeEndpoint, settings.PinterestEndpoint)
	}

	submitter := controller.NewHTTPSubmitter(
		myhttp.NewClient(
			myhttp.WithLogger(log.Default()),
		),
	)
	MyAppState = NewAppState(ctx, settings, submitter)
	return MyAppState
}

func NewAppState(ctx context.Context, settings models.Settings, submitter controller.Submitter) *AppState {
	state := AppState{
		StateContext: ctx,
		Settings:     settings,
		Statuses:     store.NewStatusList(settings.Order),
	}

	confFn := []func(c *controller.Controller){
		controller.WithLogger(log.Default()),
	}
	if settings.AutoOpen {
		confFn = append(confFn, controller.WithOpener(openLink))
	}
	state.Controller = controller.New(submitter, state.Statuses, confFn...)
	return &state
}

// resolveEndpoint makes the endpoint absolute, relatively to the page's URL
func resolveEndpoint(page *url.URL, endpoint string) string {
	ref, err := url.Parse(endpoint)
	if err != nil || page == nil {
		return endpoint
	}
	return page.ResolveReference(ref).String()
}

// openLink follows the download link
func openLink(u string) {
	app.Window().Get("location").Set("href", u)
}

func StringIf(b bool, whenTrue string, whenFalse string) string {
	if b {
		return whenTrue
	}
	return whenFalse
}
