package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/dom/videotube/internal/websocket"
	"github.com/goccy/go-json"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// Global flags
	apiURL := "http://localhost:8000"
	if envURL := os.Getenv("API_URL"); envURL != "" {
		apiURL = envURL
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "community":
		communityCmd(apiURL, args)
	case "watch":
		watchCmd(apiURL, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Community Simulator - Development tool for populating a local videotube

USAGE:
  simulator <command> [options]

COMMANDS:
  community  Create a channel with subscribers, tweets, likes and optionally a video
  watch      Sign in and print the live activity feed
  help       Show this help message

ENVIRONMENT:
  API_URL   Backend API URL (default: http://localhost:8000)

EXAMPLES:
  # Channel with 5 subscribers and 3 tweets
  simulator community

  # Also publish a real video file
  simulator community --viewers=10 --video=clip.mp4 --thumbnail=thumb.png

  # Follow the feed of an existing account
  simulator watch --username=alice --password=secret`)
}

func communityCmd(apiURL string, args []string) {
	fs := flag.NewFlagSet("community", flag.ExitOnError)
	viewers := fs.Int("viewers", 5, "Number of subscribers to create")
	tweets := fs.Int("tweets", 3, "Number of tweets the channel posts")
	videoPath := fs.String("video", "", "Video file to publish (optional)")
	thumbnailPath := fs.String("thumbnail", "", "Thumbnail for --video (defaults to a generated image)")
	fs.Parse(args)

	if *viewers < 0 || *tweets < 0 {
		fmt.Println("Error: --viewers and --tweets must not be negative")
		os.Exit(1)
	}

	avatar, err := writePlaceholderImage()
	if err != nil {
		fmt.Printf("Failed to create placeholder image: %v\n", err)
		os.Exit(1)
	}
	defer os.Remove(avatar)

	client := NewAPIClient(apiURL)

	fmt.Println("=== Community Simulator ===")
	fmt.Println()

	// 1. Channel owner
	fmt.Print("Creating channel... ")
	channel, err := client.RegisterUser("Channel", avatar)
	if err != nil {
		fmt.Printf("FAILED\n  Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("OK (user: %s)\n", channel.User.Username)

	// 2. Subscribers
	fmt.Println()
	fmt.Printf("Adding %d subscribers:\n", *viewers)
	accounts := make([]*Account, 0, *viewers)
	for i := 0; i < *viewers; i++ {
		viewer, err := client.RegisterUser(fmt.Sprintf("Viewer%d", i+1), avatar)
		if err != nil {
			fmt.Printf("  [%d/%d] FAILED to create user: %v\n", i+1, *viewers, err)
			os.Exit(1)
		}
		if err := client.Subscribe(viewer.Token, channel.User.ID); err != nil {
			fmt.Printf("  [%d/%d] FAILED to subscribe: %v\n", i+1, *viewers, err)
			os.Exit(1)
		}
		accounts = append(accounts, viewer)
		fmt.Printf("  [%d/%d] %s subscribed\n", i+1, *viewers, viewer.User.Username)
	}

	// 3. Tweets, liked by every other subscriber
	fmt.Println()
	fmt.Printf("Posting %d tweets... ", *tweets)
	for i := 0; i < *tweets; i++ {
		tweet, err := client.PostTweet(channel.Token, fmt.Sprintf("Update #%d from the channel", i+1))
		if err != nil {
			fmt.Printf("FAILED\n  Error: %v\n", err)
			os.Exit(1)
		}
		for j, viewer := range accounts {
			if (i+j)%2 != 0 {
				continue
			}
			if err := client.LikeTweet(viewer.Token, tweet.ID); err != nil {
				fmt.Printf("Warning: %s failed to like tweet: %v\n", viewer.User.Username, err)
			}
		}
	}
	fmt.Println("OK")

	// 4. Optional video
	if *videoPath != "" {
		thumb := *thumbnailPath
		if thumb == "" {
			thumb = avatar
		}
		fmt.Print("Publishing video... ")
		video, err := client.PublishVideo(channel.Token, "Simulated upload", *videoPath, thumb)
		if err != nil {
			fmt.Printf("FAILED\n  Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("OK (%s, %.1fs)\n", video.ID, video.Duration)

		for _, viewer := range accounts {
			if err := client.LikeVideo(viewer.Token, video.ID); err != nil {
				fmt.Printf("Warning: %s failed to like video: %v\n", viewer.User.Username, err)
			}
		}
	}

	profile, err := client.ChannelProfile(channel.Token, channel.User.Username)
	if err != nil {
		fmt.Printf("Failed to load channel profile: %v\n", err)
		os.Exit(1)
	}

	// Print summary
	fmt.Println()
	fmt.Println("=========================================")
	fmt.Println("  COMMUNITY READY")
	fmt.Println("=========================================")
	fmt.Println()
	fmt.Printf("  Channel:     %s\n", profile.Username)
	fmt.Printf("  Password:    %s\n", channel.Password)
	fmt.Printf("  Subscribers: %d\n", profile.SubscriberCount)
	if len(accounts) > 0 {
		fmt.Println()
		fmt.Println("  Follow a subscriber's feed with:")
		fmt.Printf("  simulator watch --username=%s --password=%s\n", accounts[0].User.Username, accounts[0].Password)
	}
	fmt.Println()
}

func watchCmd(apiURL string, args []string) {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	username := fs.String("username", "", "Account username (required)")
	password := fs.String("password", "", "Account password (required)")
	fs.Parse(args)

	if *username == "" || *password == "" {
		fmt.Println("Error: --username and --password are required")
		fmt.Println("\nUsage: simulator watch --username=alice --password=secret")
		os.Exit(1)
	}

	client := NewAPIClient(apiURL)

	account, err := client.Login(*username, *password)
	if err != nil {
		fmt.Printf("Failed to sign in: %v\n", err)
		os.Exit(1)
	}

	conn, err := client.DialFeed(account.Token)
	if err != nil {
		fmt.Printf("Failed to open feed: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		conn.Close()
	}()

	fmt.Printf("Watching feed of %s (Ctrl+C to stop)\n\n", account.User.Username)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			fmt.Println("Feed closed")
			return
		}

		var msg websocket.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			fmt.Printf("  unreadable frame: %v\n", err)
			continue
		}
		fmt.Printf("  [%s] %s\n", msg.Type, string(msg.Payload))
	}
}

// writePlaceholderImage writes a small solid PNG used as avatar and fallback thumbnail.
func writePlaceholderImage() (string, error) {
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for x := 0; x < 64; x++ {
		for y := 0; y < 64; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 40, B: 40, A: 255})
		}
	}

	f, err := os.CreateTemp("", "videotube-sim-*.png")
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return filepath.Clean(f.Name()), nil
}
