package testutil

import (
	"fmt"
	"strings"
)

// ThingAgricola is a thing response for one board game with stats, a video and a version.
const ThingAgricola = `<?xml version="1.0" encoding="utf-8"?>
<items termsofuse="https://boardgamegeek.com/xmlapi/termsofuse">
	<item type="boardgame" id="31260">
		<thumbnail>https://cf.geekdo-images.com/thumb/agricola.jpg</thumbnail>
		<image>https://cf.geekdo-images.com/original/agricola.jpg</image>
		<name type="primary" sortindex="1" value="Agricola" />
		<name type="alternate" sortindex="1" value="Агрикола" />
		<description>Farming in 17th century &amp;quot;Europe&amp;quot;.&amp;#10;Plough, sow and harvest.</description>
		<yearpublished value="2007" />
		<minplayers value="1" />
		<maxplayers value="5" />
		<playingtime value="150" />
		<minplaytime value="30" />
		<maxplaytime value="150" />
		<minage value="12" />
		<link type="boardgamecategory" id="1013" value="Farming" />
		<link type="boardgamemechanic" id="2082" value="Worker Placement" />
		<link type="boardgamefamily" id="8128" value="Agricola" />
		<link type="boardgamedesigner" id="4958" value="Uwe Rosenberg" />
		<link type="boardgameartist" id="11883" value="Klemens Franz" />
		<link type="boardgamepublisher" id="34" value="Lookout Games" />
		<link type="boardgameexpansion" id="38733" value="Agricola: Farmers of the Moor" />
		<link type="boardgameimplementation" id="200680" value="Agricola (Revised Edition)" inbound="true" />
		<videos total="1">
			<video id="1234" title="How to play" category="instructional" language="English" link="https://www.youtube.com/watch?v=abc" username="reviewer" userid="42" postdate="2010-01-02T03:04:05-05:00" />
		</videos>
		<versions>
			<item type="boardgameversion" id="22">
				<name type="primary" sortindex="1" value="English first edition" />
				<yearpublished value="2008" />
				<productcode value="ZM7041" />
				<width value="11.75" />
				<length value="11.75" />
				<depth value="3" />
				<weight value="5.2" />
				<link type="boardgamepublisher" id="2" value="Z-Man Games" />
				<link type="language" id="2184" value="English" />
			</item>
		</versions>
		<statistics page="1">
			<ratings>
				<usersrated value="68000" />
				<average value="7.91" />
				<bayesaverage value="7.77" />
				<ranks>
					<rank type="subtype" id="1" name="boardgame" friendlyname="Board Game Rank" value="40" bayesaverage="7.77" />
					<rank type="family" id="5497" name="strategygames" friendlyname="Strategy Game Rank" value="Not Ranked" bayesaverage="Not Ranked" />
				</ranks>
				<stddev value="1.56" />
				<median value="0" />
				<owned value="90000" />
				<trading value="1200" />
				<wanting value="700" />
				<wishing value="8000" />
				<numcomments value="11000" />
				<numweights value="5000" />
				<averageweight value="3.64" />
			</ratings>
		</statistics>
	</item>
</items>`

// ThingEmpty is the thing response for an unknown id.
const ThingEmpty = `<?xml version="1.0" encoding="utf-8"?><items termsofuse="https://boardgamegeek.com/xmlapi/termsofuse"></items>`

// ThingItems builds a thing response containing one minimal board game per id.
func ThingItems(ids ...int) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="utf-8"?><items>`)
	for _, id := range ids {
		fmt.Fprintf(&b, `<item type="boardgame" id="%d"><name type="primary" value="Game %d"/><yearpublished value="2000"/></item>`, id, id)
	}
	b.WriteString(`</items>`)
	return b.String()
}

// SearchAgricola is a search response with two hits.
const SearchAgricola = `<?xml version="1.0" encoding="utf-8"?>
<items total="2" termsofuse="https://boardgamegeek.com/xmlapi/termsofuse">
	<item type="boardgame" id="31260">
		<name type="primary" value="Agricola" />
		<yearpublished value="2007" />
	</item>
	<item type="boardgameexpansion" id="38733">
		<name type="primary" value="Agricola: Farmers of the Moor" />
		<yearpublished value="2009" />
	</item>
</items>`

// SearchEmpty is a search response without hits.
const SearchEmpty = `<?xml version="1.0" encoding="utf-8"?><items total="0" termsofuse="https://boardgamegeek.com/xmlapi/termsofuse"></items>`

// CollectionAlice is a collection response with two items.
const CollectionAlice = `<?xml version="1.0" encoding="utf-8" standalone="yes"?>
<items totalitems="2" termsofuse="https://boardgamegeek.com/xmlapi/termsofuse" pubdate="Sat, 02 Mar 2024 10:00:00 +0000">
	<item objecttype="thing" objectid="31260" subtype="boardgame" collid="1001">
		<name sortindex="1">Agricola</name>
		<yearpublished>2007</yearpublished>
		<image>https://cf.geekdo-images.com/original/agricola.jpg</image>
		<thumbnail>https://cf.geekdo-images.com/thumb/agricola.jpg</thumbnail>
		<stats minplayers="1" maxplayers="5" minplaytime="30" maxplaytime="150" playingtime="150" numowned="90000">
			<rating value="9">
				<usersrated value="68000" />
				<average value="7.91" />
				<bayesaverage value="7.77" />
				<stddev value="1.56" />
				<median value="0" />
				<ranks>
					<rank type="subtype" id="1" name="boardgame" friendlyname="Board Game Rank" value="40" bayesaverage="7.77" />
				</ranks>
			</rating>
		</stats>
		<status own="1" prevowned="0" fortrade="0" want="0" wanttoplay="1" wanttobuy="0" wishlist="0" preordered="0" lastmodified="2024-01-05 11:12:13" />
		<numplays>12</numplays>
		<comment>Best with 4</comment>
	</item>
	<item objecttype="thing" objectid="68448" subtype="boardgame" collid="1002">
		<name sortindex="1">7 Wonders</name>
		<yearpublished>2010</yearpublished>
		<stats minplayers="2" maxplayers="7" minplaytime="30" maxplaytime="30" playingtime="30" numowned="110000">
			<rating value="N/A">
				<usersrated value="98000" />
				<average value="7.7" />
				<bayesaverage value="7.6" />
				<stddev value="1.3" />
				<median value="0" />
				<ranks>
					<rank type="subtype" id="1" name="boardgame" friendlyname="Board Game Rank" value="70" bayesaverage="7.6" />
				</ranks>
			</rating>
		</stats>
		<status own="0" prevowned="0" fortrade="0" want="0" wanttoplay="0" wanttobuy="0" wishlist="1" wishlistpriority="2" preordered="0" lastmodified="2024-02-01 09:00:00" />
		<numplays>0</numplays>
	</item>
</items>`

// CollectionInvalidUser is the collection response for an unknown username.
const CollectionInvalidUser = `<?xml version="1.0" encoding="utf-8" standalone="yes"?><errors><error><message>Invalid username specified</message></error></errors>`

// GuildPage builds page `page` of a guild with `total` members, 25 per page.
func GuildPage(id, total, page int) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<?xml version="1.0" encoding="utf-8"?><guild id="%d" name="Geek Tools" created="Sat, 01 Jan 2011 00:00:00 +0000" termsofuse="https://boardgamegeek.com/xmlapi/termsofuse">`, id)
	b.WriteString(`<category>interest</category><website>https://example.com</website><manager>alice</manager><description>Tools &amp;amp; more</description>`)
	b.WriteString(`<location><addr1></addr1><addr2></addr2><city>Springfield</city><stateorprovince>IL</stateorprovince><postalcode>62701</postalcode><country>United States</country></location>`)
	fmt.Fprintf(&b, `<members count="%d" page="%d">`, total, page)
	for i := (page-1)*25 + 1; i <= page*25 && i <= total; i++ {
		fmt.Fprintf(&b, `<member name="member%03d" date="Mon, 01 Jan 2024 00:00:00 +0000"/>`, i)
	}
	b.WriteString(`</members></guild>`)
	return b.String()
}

// GuildNotFound is the guild response for an unknown id.
const GuildNotFound = `<?xml version="1.0" encoding="utf-8"?><guild id="0" termsofuse="https://boardgamegeek.com/xmlapi/termsofuse"><error>Guild not found.</error></guild>`

// UserPage builds page `page` of a user with the given buddy and guild totals, 100 per page.
func UserPage(name string, buddies, guilds, page int) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<?xml version="1.0" encoding="utf-8"?><user id="818216" name="%s" termsofuse="https://boardgamegeek.com/xmlapi/termsofuse">`, name)
	b.WriteString(`<firstname value="Alice"/><lastname value="Liddell"/><avatarlink value="N/A"/><yearregistered value="2014"/>`)
	b.WriteString(`<lastlogin value="2024-02-01"/><stateorprovince value=""/><country value="United Kingdom"/><webaddress value=""/>`)
	b.WriteString(`<xboxaccount value=""/><wiiaccount value=""/><psnaccount value=""/><battlenetaccount value=""/><steamaccount value="alice"/><traderating value="3"/>`)
	fmt.Fprintf(&b, `<buddies total="%d" page="%d">`, buddies, page)
	for i := (page-1)*100 + 1; i <= page*100 && i <= buddies; i++ {
		fmt.Fprintf(&b, `<buddy id="%d" name="buddy%03d"/>`, i, i)
	}
	fmt.Fprintf(&b, `</buddies><guilds total="%d" page="%d">`, guilds, page)
	for i := (page-1)*100 + 1; i <= page*100 && i <= guilds; i++ {
		fmt.Fprintf(&b, `<guild id="%d" name="guild%03d"/>`, 1000+i, i)
	}
	b.WriteString(`</guilds></user>`)
	return b.String()
}

// UserNotFound is the user response for an unknown name.
const UserNotFound = `<?xml version="1.0" encoding="utf-8"?><user id="" name="" termsofuse="https://boardgamegeek.com/xmlapi/termsofuse"><firstname value=""/><lastname value=""/></user>`

// PlaysPage builds page `page` of a user's plays with `total` plays, 100 per page.
func PlaysPage(username string, total, page int) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<?xml version="1.0" encoding="utf-8"?><plays username="%s" userid="818216" total="%d" page="%d" termsofuse="https://boardgamegeek.com/xmlapi/termsofuse">`, username, total, page)
	for i := (page-1)*100 + 1; i <= page*100 && i <= total; i++ {
		fmt.Fprintf(&b, `<play id="%d" date="2024-01-%02d" quantity="1" length="90" incomplete="0" nowinstats="0" location="Home">`, 5000+i, i%28+1)
		b.WriteString(`<item name="Agricola" objecttype="thing" objectid="31260"><subtypes><subtype value="boardgame"/></subtypes></item>`)
		b.WriteString(`<comments>Close game</comments><players>`)
		fmt.Fprintf(&b, `<player username="%s" userid="818216" name="Alice" startposition="1" color="red" score="42" new="0" rating="0" win="1"/>`, username)
		b.WriteString(`<player username="" userid="0" name="Bob" startposition="2" color="blue" score="38" new="1" rating="0" win="0"/>`)
		b.WriteString(`</players></play>`)
	}
	b.WriteString(`</plays>`)
	return b.String()
}

// PlaysInvalid is the plays response for an unknown user or game.
const PlaysInvalid = `<div class='messagebox error'>Invalid object or user</div>`

// HotBoardgames is a hot list response.
const HotBoardgames = `<?xml version="1.0" encoding="utf-8"?>
<items termsofuse="https://boardgamegeek.com/xmlapi/termsofuse">
	<item id="224517" rank="1">
		<thumbnail value="https://cf.geekdo-images.com/thumb/brass.jpg"/>
		<name value="Brass: Birmingham"/>
		<yearpublished value="2018"/>
	</item>
	<item id="342942" rank="2">
		<thumbnail value="https://cf.geekdo-images.com/thumb/ark.jpg"/>
		<name value="Ark Nova"/>
		<yearpublished value="2021"/>
	</item>
</items>`
