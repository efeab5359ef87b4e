// Package vk is a minimal client for the VK photos.get method.
//
// It performs exactly one request per album: no authentication, no
// pagination, no retries. Failures come back as *errors.Error values typed
// network, server_error, rate_limit, not_found, parsing or api, so callers
// can tell a transport problem from a service-side refusal.
//
//	client := vk.NewClient(30*time.Second, ratelimit.PerSecond(3), log)
//	resp, err := client.FetchAlbumPhotos(ctx, vk.PhotosRequest{
//	    OwnerID: -500,
//	    AlbumID: 12,
//	    Rev:     1,
//	})
//	for _, photo := range resp.Photos {
//	    if u, ok := photo.URL(vk.SizeBig); ok {
//	        fmt.Println(u, photo.Text)
//	    }
//	}
package vk
