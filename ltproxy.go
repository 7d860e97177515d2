// Package ltproxy provides a caching translation proxy with ordered
// backend fallback.
//
// A Dispatcher answers translation requests from a bounded TTL cache when it
// can, and otherwise forwards them to a list of backends (LibreTranslate
// compatible endpoints, optionally an OpenAI model) tried strictly in order
// until one succeeds.
//
// Basic usage:
//
//	import (
//	    "context"
//	    "github.com/ZaguanLabs/ltproxy"
//	    "github.com/ZaguanLabs/ltproxy/cache"
//	    "github.com/ZaguanLabs/ltproxy/provider"
//	)
//
//	func main() {
//	    primary := provider.NewLibreTranslateBackend(provider.LibreTranslateConfig{
//	        URL: "https://libretranslate.com/translate",
//	    })
//	    fallback := provider.NewLibreTranslateBackend(provider.LibreTranslateConfig{
//	        URL: "https://translate.example.org/translate",
//	    })
//
//	    d := ltproxy.NewDispatcher([]ltproxy.Backend{primary, fallback},
//	        ltproxy.WithCache(cache.NewInMemoryCache()),
//	    )
//
//	    res, err := d.Translate(context.Background(), ltproxy.TranslationRequest{
//	        Text:       "Hello World",
//	        TargetLang: "es",
//	    })
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(res.Text) // Hola Mundo
//	}
package ltproxy
