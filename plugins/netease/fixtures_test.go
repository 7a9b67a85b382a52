package netease

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"github.com/liuran001/hymusic/core/transport"
)

const songDetailJSON = `{"code":200,"songs":[{
	"id":186016,"name":"晴天","duration":269000,
	"artists":[{"id":6452,"name":"周杰伦","picUrl":null}],
	"album":{"id":18905,"name":"叶惠美","picUrl":"http://p1.music.126.net/yhm.jpg","publishTime":1059580800000,"company":"阿尔发","artist":{"id":0,"name":""}},
	"hMusic":{"dfsId":7917472697519214,"bitrate":320000,"extension":"mp3","size":10767000},
	"mMusic":null,
	"lMusic":{"dfsId":5964855883880587,"bitrate":96000,"extension":"mp3","size":3230000},
	"mp3Url":"http://m2.music.126.net/default/186016.mp3"
}]}`

const bareSongJSON = `{"code":200,"songs":[{
	"id":1,"name":"bare","duration":1000,
	"artists":[{"id":2,"name":"a"}],
	"album":{"id":3,"name":"b"}
}]}`

const searchSongsJSON = `{"code":200,"result":{"songCount":4,"songs":[
	{"id":1,"name":"test one","duration":200000,"artists":[{"id":10,"name":"Alpha"}],"album":{"id":100,"name":"A1","publishTime":0}},
	{"id":2,"name":"test two","duration":210000,"artists":[{"id":11,"name":"Beta"}],"album":{"id":101,"name":"B1"}},
	{"id":3,"name":"test three","duration":220000,"artists":[{"id":10,"name":"Alpha"}],"album":{"id":102,"name":"A2"}},
	{"id":4,"name":"test four","duration":230000,"artists":[{"id":10,"name":"Alpha"}],"album":{"id":103,"name":"A3"}}
]}}`

const searchPlaylistsJSON = `{"code":200,"result":{"playlists":[
	{"id":77,"name":"Focus","coverImgUrl":"http://p1.music.126.net/f.jpg","trackCount":2,"playCount":900,
	 "creator":{"userId":301,"nickname":"alice","gender":2}}
]}}`

const playlistDetailJSON = `{"code":200,"result":{
	"id":77,"name":"Focus","coverImgUrl":"http://p1.music.126.net/f.jpg","trackCount":2,"playCount":901,
	"bookCount":15,"sharedCount":3,
	"creator":{"userId":301,"nickname":"alice","gender":1,"avatarUrl":"http://p1.music.126.net/alice.jpg","signature":"hi"},
	"tracks":[
		{"id":1,"name":"t1","duration":1000,"artists":[{"id":10,"name":"Alpha"}],"album":{"id":100,"name":"A1"}},
		{"id":2,"name":"t2","duration":2000,"artists":[{"id":11,"name":"Beta"}],"album":{"id":101,"name":"B1"}}
	]
}}`

const artistAlbumsJSON = `{"code":200,
	"artist":{"id":6452,"name":"周杰伦","picUrl":"http://p1.music.126.net/jay.jpg"},
	"hotAlbums":[
		{"id":18905,"name":"叶惠美","artist":{"id":6452,"name":"周杰伦"},"publishTime":1059580800000},
		{"id":18896,"name":"范特西","artist":{"id":6452,"name":"周杰伦"}}
	]}`

const albumDetailJSON = `{"code":200,"album":{
	"id":18905,"name":"叶惠美","company":"阿尔发","picUrl":"http://p1.music.126.net/yhm.jpg",
	"artist":{"id":6452,"name":"周杰伦"},
	"songs":[{"id":186016,"name":"晴天","duration":269000,"artists":[{"id":6452,"name":"周杰伦"}],"album":{"id":18905,"name":"叶惠美"}}]
}}`

const lyricJSON = `{"code":200,
	"lrc":{"version":1,"lyric":"[00:01.00]故事的小黄花"},
	"klyric":{"version":0,"lyric":null},
	"tlyric":{"version":1,"lyric":""}
}`

const hubPage1 = `<html><body><ul id="m-pl-container">
<li><div class="u-cover u-cover-1"><img class="j-flag" src="http://p1.music.126.net/c1.jpg?param=140y140"/><a title="Morning Coffee" href="/playlist?id=2001" class="msk"></a></div>
<p class="dec"><a title="Morning Coffee" href="/playlist?id=2001" class="tit">Morning Coffee</a></p>
<p><span>by</span> <a title="alice" href="/user/home?id=301" class="nm nm-icn f-thide s-fc3">alice</a></p></li>
<li><div class="u-cover u-cover-1"><img class="j-flag" src="http://p1.music.126.net/c2.jpg"/><a title="Night Drive" href="/playlist?id=2002" class="msk"></a></div>
<p><span>by</span> <a title="bob" href="/user/home?id=302" class="nm">bob</a></p></li>
</ul></body></html>`

const hubPage2 = `<html><body><ul id="m-pl-container">
<li><div class="u-cover"><img src="http://p1.music.126.net/c3.jpg?param=1"/><a title="Rainy Day" href="/playlist?id=2003"></a></div>
<p><a href="/user/home?id=303" class="nm">carol</a></p></li>
</ul></body></html>`

const hubEmpty = `<html><body><ul id="m-pl-container"></ul></body></html>`

// fakeFetcher serves canned bodies keyed by path; hub pages are keyed by offset.
type fakeFetcher struct {
	mu        sync.Mutex
	responses map[string]string
	hub       map[string]string
	calls     []string
	forms     []url.Values
}

func newFakeFetcher(responses map[string]string) *fakeFetcher {
	return &fakeFetcher{responses: responses, hub: map[string]string{}}
}

func (f *fakeFetcher) Get(ctx context.Context, rawURL string, query url.Values) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := strings.TrimPrefix(rawURL, DefaultBaseURL)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, path)
	if path == "/discover/playlist/" {
		if body, ok := f.hub[query.Get("offset")]; ok {
			return []byte(body), nil
		}
		return []byte(hubEmpty), nil
	}
	body, ok := f.responses[path]
	if !ok {
		return nil, &transport.StatusError{Method: "GET", URL: rawURL, Code: 404}
	}
	return []byte(body), nil
}

func (f *fakeFetcher) PostForm(ctx context.Context, rawURL string, form url.Values) ([]byte, error) {
	path := strings.TrimPrefix(rawURL, DefaultBaseURL)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, path)
	f.forms = append(f.forms, form)
	body, ok := f.responses[path+"?type="+form.Get("type")]
	if !ok {
		return nil, &transport.StatusError{Method: "POST", URL: rawURL, Code: 404}
	}
	return []byte(body), nil
}

func (f *fakeFetcher) PostJSON(ctx context.Context, rawURL string, body []byte) ([]byte, error) {
	return nil, &transport.StatusError{Method: "POST", URL: rawURL, Code: 404}
}

func (f *fakeFetcher) callCount(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == path {
			n++
		}
	}
	return n
}

func newTestPlatform(f *fakeFetcher) *NeteasePlatform {
	return NewPlatform(NewClient(f, "", nil), WithHostPicker(func() int { return 1 }))
}
