package tasks

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/albumctl/internal/models"
	"github.com/desertthunder/albumctl/internal/services"
	"github.com/desertthunder/albumctl/internal/shared"
	"golang.org/x/sync/singleflight"
)

// PlayMode selects where playback starts.
type PlayMode int

const (
	PlayInOrder PlayMode = iota
	PlayFromAlbum
	PlayShuffle
)

func (m PlayMode) String() string {
	switch m {
	case PlayFromAlbum:
		return "from_album"
	case PlayShuffle:
		return "shuffle"
	default:
		return "in_order"
	}
}

// PlaybackBackend lists devices and starts playback.
type PlaybackBackend interface {
	Devices(ctx context.Context) ([]models.Device, error)
	PlayCollection(ctx context.Context, req services.PlayRequest) error
}

// PlaybackController starts a collection on a device in one of three exclusive modes.
type PlaybackController struct {
	collectionID string
	backend      PlaybackBackend
	recorder     ActivityRecorder
	logger       *log.Logger
	group        singleflight.Group

	mu           sync.Mutex
	mode         PlayMode
	startAlbumID string
}

// NewPlaybackController creates a controller in [PlayInOrder] mode. recorder and logger may be nil.
func NewPlaybackController(collectionID string, backend PlaybackBackend, recorder ActivityRecorder, logger *log.Logger) *PlaybackController {
	return &PlaybackController{collectionID: collectionID, backend: backend, recorder: recorder, logger: discardLogger(logger)}
}

// SelectInOrder plays the collection from its first album.
func (c *PlaybackController) SelectInOrder() { c.setMode(PlayInOrder, "") }

// SelectFromAlbum plays the collection starting at albumID.
func (c *PlaybackController) SelectFromAlbum(albumID string) { c.setMode(PlayFromAlbum, albumID) }

// SelectShuffle plays the collection album-shuffled.
func (c *PlaybackController) SelectShuffle() { c.setMode(PlayShuffle, "") }

func (c *PlaybackController) setMode(m PlayMode, albumID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode, c.startAlbumID = m, albumID
}

// Mode returns the selected mode and, for [PlayFromAlbum], the start album.
func (c *PlaybackController) Mode() (PlayMode, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode, c.startAlbumID
}

// Devices fetches the available devices, sorted by name. An empty list is [shared.ErrNoDevices].
func (c *PlaybackController) Devices(ctx context.Context, progress chan<- ProgressUpdate) ([]models.Device, error) {
	sendProgress(progress, fetchingDevicesUpdate())

	devices, err := c.backend.Devices(ctx)
	if err != nil {
		return nil, err
	}
	if len(devices) == 0 {
		return nil, shared.ErrNoDevices
	}

	devices = append([]models.Device(nil), devices...)
	sort.Slice(devices, func(i, j int) bool { return devices[i].Name < devices[j].Name })

	sendProgress(progress, fetchedDevicesUpdate(devices))
	return devices, nil
}

// ResolveDevice finds a device by id, then by case-insensitive name.
func ResolveDevice(devices []models.Device, idOrName string) (models.Device, error) {
	for _, d := range devices {
		if d.ID == idOrName {
			return d, nil
		}
	}
	for _, d := range devices {
		if strings.EqualFold(d.Name, idOrName) {
			return d, nil
		}
	}
	return models.Device{}, fmt.Errorf("%w: %s", shared.ErrDeviceNotFound, idOrName)
}

// Request builds the play request for the selected mode.
func (c *PlaybackController) Request(deviceID string) services.PlayRequest {
	mode, start := c.Mode()
	req := services.PlayRequest{CollectionID: c.collectionID, DeviceID: deviceID}
	switch mode {
	case PlayFromAlbum:
		req.StartAlbumID = start
	case PlayShuffle:
		req.Shuffle = true
	}
	return req
}

// Play starts playback on deviceID with the selected mode.
//
// The loading indicator is opened and closed through progress. Identical requests already in flight are shared.
func (c *PlaybackController) Play(ctx context.Context, progress chan<- ProgressUpdate, deviceID string) error {
	if deviceID == "" {
		return fmt.Errorf("%w: device", shared.ErrMissingArgument)
	}

	mode, _ := c.Mode()
	req := c.Request(deviceID)
	key := fmt.Sprintf("%s|%s|%s|%t", req.CollectionID, req.DeviceID, req.StartAlbumID, req.Shuffle)

	sendProgress(progress, playingUpdate(deviceID))
	_, err, dup := c.group.Do(key, func() (any, error) {
		err := c.backend.PlayCollection(ctx, req)
		record(ctx, c.recorder, c.logger, models.Activity{
			Kind:         models.ActivityPlay,
			CollectionID: req.CollectionID,
			AlbumID:      req.StartAlbumID,
			Detail:       fmt.Sprintf("%s on %s", mode, req.DeviceID),
		}, err)
		return nil, err
	})
	sendProgress(progress, playedUpdate(err))

	if dup {
		c.logger.Debug("play request shared with an identical one in flight", "device", deviceID)
	}
	return err
}
